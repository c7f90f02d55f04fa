// Package main provides the nnlab CLI: train small feed-forward networks on
// the built-in datasets, save checkpoints and query them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/born-ml/nnlab/internal/dataset"
	"github.com/born-ml/nnlab/internal/eval"
	"github.com/born-ml/nnlab/internal/nn"
	"github.com/born-ml/nnlab/internal/optim"
	"github.com/born-ml/nnlab/internal/serialization"
	"github.com/born-ml/nnlab/internal/train"
	"golang.org/x/exp/rand"
)

const version = "v0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "nnlab: %v\n", err)
		}
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "nnlab %s - feed-forward network lab\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  datasets   List built-in datasets")
	fmt.Fprintln(w, "  train      Train a network on a dataset")
	fmt.Fprintln(w, "  predict    Run a saved network on one input")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "nnlab %s\n", version)
		return nil
	case "datasets":
		return listDatasets(stdout)
	case "train":
		return trainCmd(ctx, args[1:], stdout, stderr)
	case "predict":
		return predictCmd(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func listDatasets(w io.Writer) error {
	for _, name := range dataset.Names() {
		info, err := dataset.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-10s %d -> %d  %s\n", info.Name, info.Inputs, info.Outputs, info.Summary)
	}
	return nil
}

// parseInts parses a comma-separated list such as "2,6,6,1".
func parseInts(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseFloats parses a comma-separated list such as "0.5,-1".
func parseFloats(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

type trainFlags struct {
	dataset    string
	layers     string
	activation string
	output     string
	lr         float64
	epochs     int
	seed       uint64
	momentum   float64
	target     float64
	logEvery   int
	load       string
	save       string
	verbose    bool
}

func trainCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f trainFlags
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.dataset, "dataset", "xor", "Dataset to train on (see 'nnlab datasets')")
	fs.StringVar(&f.layers, "layers", "", "Layer sizes, input first (default: inputs,6,6,outputs)")
	fs.StringVar(&f.activation, "activation", "sigmoid", "Hidden activation: sigmoid, relu or tanh")
	fs.StringVar(&f.output, "output", "sigmoid", "Output mode: sigmoid, softmax or linear")
	fs.Float64Var(&f.lr, "lr", 0.5, "Learning rate")
	fs.IntVar(&f.epochs, "epochs", 1000, "Number of training epochs")
	fs.Uint64Var(&f.seed, "seed", 0, "Random seed for weights, data and shuffling (0 = from clock)")
	fs.Float64Var(&f.momentum, "momentum", 0, "SGD momentum")
	fs.Float64Var(&f.target, "target-loss", 0, "Stop early below this loss (0 = never)")
	fs.IntVar(&f.logEvery, "log-every", 100, "Print progress every N epochs (negative = never)")
	fs.StringVar(&f.load, "load", "", "Resume from this checkpoint (architecture and optimizer state)")
	fs.StringVar(&f.save, "save", "", "Write a checkpoint to this path")
	fs.BoolVar(&f.verbose, "v", false, "Verbose (debug) logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if f.seed == 0 {
		//nolint:gosec // G115: any bit pattern is a valid seed
		f.seed = uint64(time.Now().UnixNano())
	}

	info, err := dataset.Lookup(f.dataset)
	if err != nil {
		return err
	}

	var (
		net *nn.Network
		opt optim.Optimizer
	)
	if f.load != "" {
		for _, name := range []string{"layers", "activation", "output", "momentum"} {
			if set[name] {
				return fmt.Errorf("-%s cannot be combined with -load; the checkpoint defines it", name)
			}
		}
		if net, opt, err = resume(f.load); err != nil {
			return err
		}
		if opt != nil && set["lr"] {
			opt.SetLR(f.lr)
		}
	} else if net, err = buildNetwork(f, info); err != nil {
		return err
	}

	if sizes := net.LayerSizes(); sizes[0] != info.Inputs || sizes[len(sizes)-1] != info.Outputs {
		return fmt.Errorf("layers %v do not fit dataset %s (%d inputs, %d outputs)", sizes, info.Name, info.Inputs, info.Outputs)
	}

	data, err := dataset.Generate(f.dataset, rand.New(rand.NewSource(f.seed)))
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := []train.Option{train.WithLogger(logger)}
	if opt != nil {
		opts = append(opts, train.WithOptimizer(opt))
	}

	classify := info.Inputs > 1
	opts = append(opts, train.OnEpoch(func(epoch int, loss float64) {
		if f.logEvery <= 0 || epoch%f.logEvery != 0 {
			return
		}
		fmt.Fprintf(stdout, "  epoch %5d  loss %.4f", epoch, loss)
		if classify {
			if acc, err := eval.Accuracy(net, data); err == nil {
				fmt.Fprintf(stdout, "  acc %3.0f%%", acc*100)
			}
		}
		fmt.Fprintln(stdout)
	}))

	trainer := train.New(net, train.Config{
		Epochs:     f.epochs,
		LR:         f.lr,
		Momentum:   f.momentum,
		TargetLoss: f.target,
		LogEvery:   f.logEvery,
	}, opts...)

	if f.load != "" {
		fmt.Fprintf(stdout, "Resuming %v (%s/%s) from %s at epoch %d\n", net.LayerSizes(), net.Activation(), net.OutputMode(), f.load, net.Epoch())
	}
	fmt.Fprintf(stdout, "Training %v (%s/%s) on %s: %d samples, lr %g, seed %d\n",
		net.LayerSizes(), net.Activation(), net.OutputMode(), info.Name, len(data), trainer.Optimizer().GetLR(), f.seed)

	res, err := trainer.Run(ctx, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Done: %d epochs, loss %.4f", net.Epoch(), res.Loss)
	if classify {
		acc, err := eval.Accuracy(net, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, ", accuracy %.1f%%", acc*100)
	}
	if res.Stopped {
		fmt.Fprint(stdout, " (interrupted)")
	}
	fmt.Fprintln(stdout)

	if f.save != "" {
		opts := serialization.WriteOptions{
			Metadata:  map[string]string{"dataset": info.Name, "seed": strconv.FormatUint(f.seed, 10)},
			Optimizer: trainer.Optimizer(),
		}
		if err := serialization.Save(f.save, net, opts); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Saved checkpoint to %s\n", f.save)
	}
	return nil
}

func buildNetwork(f trainFlags, info dataset.Info) (*nn.Network, error) {
	sizes := []int{info.Inputs, 6, 6, info.Outputs}
	if f.layers != "" {
		var err error
		if sizes, err = parseInts(f.layers); err != nil {
			return nil, err
		}
	}
	if len(sizes) < 2 {
		return nil, fmt.Errorf("layers %v: need at least an input and an output layer", sizes)
	}
	hidden, err := nn.ParseActivation(f.activation)
	if err != nil {
		return nil, err
	}
	output, err := nn.ParseOutputMode(f.output)
	if err != nil {
		return nil, err
	}
	return nn.NewWithConfig(nn.Config{LayerSizes: sizes, Hidden: hidden, Output: output, Seed: f.seed})
}

// resume loads a checkpoint's network and, when one was saved, its
// optimizer with the buffers restored.
func resume(path string) (*nn.Network, optim.Optimizer, error) {
	ckpt, err := serialization.Load(path, serialization.ReaderOptions{})
	if err != nil {
		return nil, nil, err
	}
	net, err := ckpt.Network()
	if err != nil {
		return nil, nil, err
	}
	opt, err := ckpt.Optimizer(net.Parameters())
	if err != nil {
		return nil, nil, err
	}
	return net, opt, nil
}

func predictCmd(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	model := fs.String("model", "", "Checkpoint to load (required)")
	input := fs.String("input", "", "Comma-separated input vector, e.g. \"0.5,-0.2\" (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *model == "" || *input == "" {
		fs.Usage()
		return errors.New("predict needs -model and -input")
	}

	x, err := parseFloats(*input)
	if err != nil {
		return err
	}
	ckpt, err := serialization.Load(*model, serialization.ReaderOptions{})
	if err != nil {
		return err
	}
	net, err := ckpt.Network()
	if err != nil {
		return err
	}
	out, err := net.Forward(x)
	if err != nil {
		return err
	}

	h := ckpt.Header()
	fmt.Fprintf(stdout, "model %v (%s/%s), epoch %d, loss %.4f\n", h.LayerSizes, h.Activation, h.OutputMode, h.Epoch, h.TotalLoss)
	for i, v := range out {
		fmt.Fprintf(stdout, "output[%d] = %.6f\n", i, v)
	}
	return nil
}
