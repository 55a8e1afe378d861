// Coil CLI - the main entry point for inspecting slice normalization
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/coil/manifest"
	"github.com/chazu/coil/vm"
	"github.com/chazu/coil/vm/inspect"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("coil")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	start := flag.String("start", "", "Start bound (decimal, empty for none)")
	stop := flag.String("stop", "", "Stop bound (decimal, empty for none)")
	step := flag.String("step", "", "Step (decimal, empty for none)")
	length := flag.String("length", "10", "Sequence length (decimal)")
	exactOnly := flag.Bool("exact", false, "Print only the exact index triple")
	cborOut := flag.String("cbor", "", "Write the normalization result as CBOR to this path")
	manifestDir := flag.String("manifest", "", "Directory containing coil.toml")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coil [options]\n\n")
		fmt.Fprintf(os.Stderr, "Normalizes a slice against a sequence length and prints both the\n")
		fmt.Fprintf(os.Stderr, "exact index triple and the machine-word adjusted range.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  coil -start 1 -stop 8 -step 2 -length 10\n")
		fmt.Fprintf(os.Stderr, "  coil -step -1 -length 5          # reversed\n")
		fmt.Fprintf(os.Stderr, "  coil -stop 3 -length 1000000000000000000000  # beyond machine words\n")
		fmt.Fprintf(os.Stderr, "  coil -start 2 -cbor out.cbor     # dump wire form\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	m, err := loadManifest(*manifestDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	vmInst := vm.NewVM()
	vmInst.SetMaxDepth(m.Runtime.MaxDepth)
	log.Infof("runtime max depth %d", m.Runtime.MaxDepth)

	s, err := buildSlice(vmInst, *start, *stop, *step)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lengthInt, ok := new(big.Int).SetString(*length, 10)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: invalid length %q\n", *length)
		os.Exit(1)
	}

	repr, err := s.Repr(vmInst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(repr)

	triple, err := inspect.Normalize(vmInst, s, lengthInt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("indices(%s) = (%s, %s, %s)\n", triple.Length, triple.Start, triple.Stop, triple.Step)

	if !*exactOnly {
		printAdjusted(vmInst, s, lengthInt, m.Runtime.Trace)
	}

	if *cborOut != "" || m.Runtime.Trace {
		path := *cborOut
		if path == "" {
			path = m.Inspect.Output
		}
		if err := writeDump(vmInst, s, &triple, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Infof("wrote CBOR dump to %s", path)
	}
}

// loadManifest reads coil.toml from dir, or falls back to defaults when no
// directory was given.
func loadManifest(dir string) (*manifest.Manifest, error) {
	if dir == "" {
		return manifest.Default(), nil
	}
	return manifest.Load(dir)
}

// buildSlice constructs a slice value from decimal bound strings. An empty
// string reads as an omitted bound.
func buildSlice(vmInst *vm.VM, start, stop, step string) (*vm.SliceObject, error) {
	bounds := make([]vm.Value, 3)
	for i, raw := range []string{start, stop, step} {
		if raw == "" {
			bounds[i] = vm.None
			continue
		}
		n, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, fmt.Errorf("invalid bound %q", raw)
		}
		bounds[i] = vmInst.NewBigInt(n)
	}
	val, err := vmInst.NewSlice(bounds...)
	if err != nil {
		return nil, err
	}
	return vm.SliceObjectFromValue(val), nil
}

// printAdjusted runs the machine-word path and prints the adjusted range
// plus the realized positions, when the length fits a machine word.
func printAdjusted(vmInst *vm.VM, s *vm.SliceObject, length *big.Int, trace bool) {
	if !length.IsUint64() || length.Uint64() > uint64(^uint(0)>>1) {
		fmt.Println("adjusted: length exceeds machine words, exact path only")
		return
	}
	n := uint(length.Uint64())

	resolved, err := vm.ResolveSlice(vmInst, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	rng, mag, backward := resolved.AdjustIndices(n)

	dir := "forward"
	if backward {
		dir = "backward"
	}
	fmt.Printf("adjusted: range [%d, %d) step %d %s, %d position(s)\n",
		rng.Start, rng.Stop, mag, dir, vm.PositionCount(rng, mag))

	positions := make([]uint, 0, vm.PositionCount(rng, mag))
	vm.WalkPositions(rng, mag, backward, func(pos uint) bool {
		positions = append(positions, pos)
		return true
	})
	fmt.Printf("positions: %v\n", positions)
	if trace {
		log.Infof("resolved %+v against length %d", resolved, n)
	}
}

// writeDump serializes the descriptor and triple to CBOR at path.
func writeDump(vmInst *vm.VM, s *vm.SliceObject, triple *inspect.NormalizedTriple, path string) error {
	d, err := inspect.DescribeSlice(vmInst, s)
	if err != nil {
		return err
	}
	descBytes, err := inspect.MarshalDescriptor(&d)
	if err != nil {
		return err
	}
	tripleBytes, err := inspect.MarshalTriple(triple)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(descBytes, tripleBytes...), 0o644)
}
