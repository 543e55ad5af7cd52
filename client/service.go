package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatedier/pktgen/internal/syncutil"
	"github.com/fatedier/pktgen/pkg/byteorder"
	"github.com/fatedier/pktgen/pkg/deliver"
	"github.com/fatedier/pktgen/pkg/log"
	"github.com/fatedier/pktgen/pkg/msg"
	"github.com/fatedier/pktgen/pkg/packet"
	"github.com/fatedier/pktgen/pkg/random"
	"github.com/fatedier/pktgen/pkg/render"
	"github.com/fatedier/pktgen/version"

	"github.com/cheggaaa/pb"
)

const DefaultSoftwareID = 69

type Options struct {
	SoftwareID int    `toml:"software_id"`
	WireOrder  string `toml:"wire_order"`

	// Size < 0 prompts for every transfer, otherwise Count transfers of
	// Size bytes are sent without prompting.
	Size    int   `toml:"size"`
	Count   int   `toml:"count"`
	MinSize int   `toml:"min_size"`
	MaxSize int   `toml:"max_size"`
	Seed    int64 `toml:"seed"`

	Target   string `toml:"target"`
	Rate     int    `toml:"rate"`
	Progress bool   `toml:"progress"`

	HexDump   bool `toml:"hexdump"`
	Quiet     bool `toml:"quiet"`
	DebugMode bool `toml:"debug"`

	LogFile    string `toml:"log_file"`
	LogLevel   string `toml:"log_level"`
	LogMaxDays int64  `toml:"log_max_days"`
}

func DefaultOptions() Options {
	return Options{
		SoftwareID: DefaultSoftwareID,
		WireOrder:  byteorder.Little.String(),
		Size:       -1,
		Count:      1,
		MinSize:    1,
		MaxSize:    1000,
		LogFile:    "console",
		LogLevel:   "info",
		LogMaxDays: 3,
	}
}

func (op *Options) Check() error {
	if op.SoftwareID < 0 || op.SoftwareID > math.MaxUint8 {
		return fmt.Errorf("software_id %d out of range [0..255]", op.SoftwareID)
	}
	if _, err := byteorder.Parse(op.WireOrder); err != nil {
		return err
	}
	if op.MinSize < 0 || op.MaxSize < op.MinSize {
		return fmt.Errorf("invalid size bounds [%d..%d]", op.MinSize, op.MaxSize)
	}
	if op.Size >= 0 && op.Count < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	if int64(op.Size) > math.MaxUint32 {
		return fmt.Errorf("size %d does not fit a 32-bit size field", op.Size)
	}
	if deliver.IsStdout(op.Target) && op.LogFile == "console" {
		return fmt.Errorf("target %s shares stdout with console logging, set log_file", op.Target)
	}
	if op.Rate < 0 {
		return fmt.Errorf("rate must not be negative")
	}
	if op.LogMaxDays <= 0 {
		op.LogMaxDays = 3
	}
	return nil
}

// Service drives the generator for one session: every transfer takes a
// random buffer and random flags, renders the train and delivers it.
type Service struct {
	opts     Options
	wire     byteorder.Endianness
	gen      *packet.Generator
	renderer *render.Renderer
	random   *random.Source
	dst      deliver.Deliverer
	log      *log.PrefixLogger

	in     io.Reader
	out    io.Writer
	stdout io.Writer
	bar    *pb.ProgressBar

	// held for a whole transfer so trains reach the wire in sequence order
	mu syncutil.Mutex

	runHandler func(ctx context.Context) error
}

// Streams are the process streams a Service talks through.
type Streams struct {
	In     io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewService writes rendered frames, prompts and the progress bar to
// Stdout, or to Stderr when frames themselves are delivered on Stdout.
func NewService(options Options, streams Streams) (*Service, error) {
	if err := options.Check(); err != nil {
		return nil, err
	}
	wire, _ := byteorder.Parse(options.WireOrder)

	gen := packet.NewGenerator(uint8(options.SoftwareID), packet.WithWireOrder(wire))
	svc := &Service{
		opts:   options,
		wire:   wire,
		gen:    gen,
		random: random.New(options.Seed),
		log:    log.NewPrefixLogger(fmt.Sprintf("sw 0x%02X", options.SoftwareID)),
		in:     streams.In,
		out:    streams.Stdout,
		stdout: streams.Stdout,
	}
	if deliver.IsStdout(options.Target) {
		svc.out = streams.Stderr
	}
	if svc.in == nil {
		svc.in = strings.NewReader("")
	}
	if svc.out == nil {
		svc.out = io.Discard
	}

	var sink render.Sink = render.NewWriterSink(svc.out)
	if options.Quiet {
		sink = render.NewLogSink(svc.log)
	}
	svc.renderer = render.New(sink,
		render.WithByteSwap(gen.SwapsByteOrder()),
		render.WithHexDump(options.HexDump))

	if options.Size < 0 {
		svc.runHandler = svc.runConsole
	} else {
		svc.runHandler = svc.runOnce
	}
	svc.log.Debug("wire order %s, host %s, swap %t", wire, byteorder.Host(), gen.SwapsByteOrder())
	return svc, nil
}

// Connect opens the delivery target, if any. Without one, trains are only
// rendered.
func (svc *Service) Connect(ctx context.Context) error {
	if svc.opts.Target == "" {
		return nil
	}

	hello := &msg.Hello{
		Version:    version.Full(),
		SoftwareID: svc.gen.SoftwareID(),
		WireOrder:  svc.wire.String(),
		Swapped:    svc.gen.SwapsByteOrder(),
	}
	dst, err := deliver.Open(ctx, svc.opts.Target, hello, deliver.Options{
		RateBytesPerSec: svc.opts.Rate,
		OnWrite:         svc.onWrite,
		Stdout:          svc.stdout,
	})
	if err != nil {
		return fmt.Errorf("open target %s: %w", svc.opts.Target, err)
	}
	svc.dst = dst
	svc.log.Info("delivering to %s", dst.Name())
	return nil
}

func (svc *Service) Run(ctx context.Context) error {
	err := svc.runHandler(ctx)
	if err != nil && svc.opts.DebugMode {
		fmt.Fprintln(svc.out, err)
	}
	return err
}

func (svc *Service) Close() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.dst == nil {
		return nil
	}
	err := svc.dst.Close()
	svc.dst = nil
	return err
}

// Transfer encodes one random buffer of size bytes with random flags,
// renders the train and delivers it. Safe for concurrent use.
func (svc *Service) Transfer(ctx context.Context, size int) ([]packet.Frame, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	buf := svc.random.Buffer(size)
	flags := svc.random.Flags()
	return svc.send(ctx, buf, flags)
}

// Send is Transfer with a caller supplied buffer and flags.
func (svc *Service) Send(ctx context.Context, buf []byte, flags packet.Flags) ([]packet.Frame, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.send(ctx, buf, flags)
}

func (svc *Service) send(ctx context.Context, buf []byte, flags packet.Flags) ([]packet.Frame, error) {
	frames := svc.gen.Encode(buf, flags)
	first := frames[0].FrameHeader().Sequence(svc.gen.SwapsByteOrder())
	svc.log.Info("encoded %d bytes into %d frames from sequence 0x%04X, flags 0b%03b",
		len(buf), len(frames), first, flags.Pack())

	svc.renderer.Render(frames)

	if svc.dst == nil {
		return frames, nil
	}

	if svc.opts.Progress {
		total := 0
		for _, f := range frames {
			total += f.Len()
		}
		svc.bar = pb.New(total)
		svc.bar.ShowSpeed = true
		svc.bar.SetUnits(pb.U_BYTES)
		svc.bar.Output = svc.out
		svc.bar.Start()
		defer func() {
			svc.bar.Finish()
			svc.bar = nil
		}()
	}

	if err := svc.dst.Deliver(ctx, frames); err != nil {
		svc.log.Warn("deliver failed: %v", err)
		return frames, err
	}
	return frames, nil
}

func (svc *Service) onWrite(n int) {
	if svc.bar != nil {
		svc.bar.Add(n)
	}
}

func (svc *Service) runOnce(ctx context.Context) error {
	for i := 0; i < svc.opts.Count; i++ {
		if _, err := svc.Transfer(ctx, svc.opts.Size); err != nil {
			return err
		}
	}
	return nil
}

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidSize  = errors.New("invalid buffer size")
)

func isInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
