package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/Bowery/prompt"
	"github.com/mkideal/cli"
	"github.com/rsocket-go-contrib/fragment/adapter"
	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/core/framing"
	"github.com/rsocket-go-contrib/fragment/core/transport"
	"github.com/rsocket-go-contrib/fragment/fragmentation"
	"github.com/rsocket-go-contrib/fragment/internal/common"
	"github.com/rsocket-go-contrib/fragment/logger"
	"go.uber.org/zap"
)

type opts struct {
	cli.Helper
	*zap.Logger

	Debug    bool   `cli:"d, debug" usage:"Debug Output"`
	MTU      int    `cli:"m, mtu" name:"bytes" usage:"Maximum transmission unit per wire fragment" dft:"128"`
	Cap      int    `cli:"c, cap" name:"bytes" usage:"Maximum accumulated bytes while reassembling, 0 means unbounded" dft:"0"`
	Type     string `cli:"t, type" name:"type" usage:"Frame type [request|fnf|stream|channel|payload]" dft:"request"`
	StreamID uint32 `cli:"sid" name:"id" usage:"Stream ID" dft:"1"`
	RequestN int    `cli:"r, requestn" name:"requests" usage:"Initial request N for stream/channel frames" dft:"1"`
	Input    string `cli:"i, input" name:"input" usage:"Data input: string, '-' (STDIN) or @path/to/file"`
	Metadata string `cli:"meta" name:"metadata" usage:"Metadata input: string or @path/to/file"`
}

func (o *opts) configureLogging() (err error) {
	if o.Debug {
		logger.SetLevel(logger.LevelDebug)
		o.Logger, err = zap.NewDevelopment()
	} else {
		logger.SetLevel(logger.LevelInfo)
		o.Logger, err = zap.NewProduction()
	}
	if err != nil {
		return
	}
	named := o.Logger.Named("fragment").WithOptions(zap.AddCaller(), zap.AddCallerSkip(2))
	logger.SetFunc(logger.LevelDebug, func(format string, args ...interface{}) {
		named.Debug(fmt.Sprintf(format, args...))
	})
	logger.SetFunc(logger.LevelInfo, func(format string, args ...interface{}) {
		named.Info(fmt.Sprintf(format, args...))
	})
	logger.SetFunc(logger.LevelWarn, func(format string, args ...interface{}) {
		named.Warn(fmt.Sprintf(format, args...))
	})
	logger.SetFunc(logger.LevelError, func(format string, args ...interface{}) {
		named.Error(fmt.Sprintf(format, args...))
	})
	return
}

func (o *opts) readInput(input string) ([]byte, error) {
	switch {
	case input == "":
		return nil, nil
	case input == "-":
		return ioutil.ReadAll(os.Stdin)
	case strings.HasPrefix(input, "@"):
		return ioutil.ReadFile(input[1:])
	default:
		return []byte(input), nil
	}
}

func (o *opts) buildFrame(data, metadata []byte) (core.BufferedFrame, error) {
	switch strings.ToLower(o.Type) {
	case "request":
		return framing.NewRequestResponseFrame(o.StreamID, data, metadata, 0), nil
	case "fnf":
		return framing.NewFireAndForgetFrame(o.StreamID, data, metadata, 0), nil
	case "stream":
		return framing.NewRequestStreamFrame(o.StreamID, uint32(o.RequestN), data, metadata, 0), nil
	case "channel":
		return framing.NewRequestChannelFrame(o.StreamID, uint32(o.RequestN), data, metadata, 0), nil
	case "payload":
		return framing.NewPayloadFrame(o.StreamID, data, metadata, core.FlagNext|core.FlagComplete), nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", o.Type)
	}
}

// captureConn records every outbound wire frame so the dump can show exactly
// what would travel on a self-delimiting transport.
type captureConn struct {
	wrote [][]byte
}

func (c *captureConn) Read() (core.BufferedFrame, error) { return nil, fmt.Errorf("write only") }

func (c *captureConn) Write(frame core.WriteableFrame) error {
	b := &bytes.Buffer{}
	if _, err := frame.WriteTo(b); err != nil {
		return err
	}
	c.wrote = append(c.wrote, b.Bytes())
	return nil
}

func (c *captureConn) Flush() error                    { return nil }
func (c *captureConn) Close() error                    { return nil }
func (c *captureConn) SetDeadline(time.Time) error     { return nil }
func (c *captureConn) SetCounter(*core.TrafficCounter) {}

var _ transport.Conn = (*captureConn)(nil)

func run(o *opts) error {
	data, err := o.readInput(o.Input)
	if err != nil {
		return err
	}
	if data == nil {
		line, err := prompt.Basic("payload: ", false)
		if err != nil {
			return err
		}
		data = []byte(line)
	}
	metadata, err := o.readInput(o.Metadata)
	if err != nil {
		return err
	}

	frame, err := o.buildFrame(data, metadata)
	if err != nil {
		return err
	}

	conn := &captureConn{}
	duplex, err := adapter.New(conn, adapter.Config{MTU: o.MTU, MaxReassemblySize: o.Cap})
	if err != nil {
		return err
	}
	defer duplex.Dispose()

	if err = duplex.SendOne(frame); err != nil {
		return err
	}
	o.Info("fragmented",
		zap.Int("mtu", o.MTU),
		zap.Int("fragments", len(conn.wrote)),
		zap.Int("data", len(data)),
		zap.Int("metadata", len(metadata)))

	reassembler := fragmentation.NewReassembler(o.Cap)
	defer reassembler.Dispose()
	var out fragmentation.HeaderAndPayload
	for i, raw := range conn.wrote {
		parsed, err := framing.FromBytes(raw)
		if err != nil {
			return err
		}
		b := &strings.Builder{}
		_, _ = fmt.Fprintf(b, "\nFragment %d/%d (%d bytes) %s\n", i+1, len(conn.wrote), len(raw), parsed.Header())
		if err = common.AppendPrettyHexDump(b, raw); err != nil {
			return err
		}
		fmt.Println(b.String())

		out, err = reassembler.Reassemble(parsed.(fragmentation.HeaderAndPayload))
		if err != nil {
			return err
		}
		if out != nil && i != len(conn.wrote)-1 {
			return fmt.Errorf("chain completed early at fragment %d", i+1)
		}
	}
	if out == nil {
		return fmt.Errorf("chain did not complete")
	}
	defer common.TryRelease(out)

	gotMetadata, _ := out.Metadata()
	roundTrip := bytes.Equal(out.Data(), data) && bytes.Equal(gotMetadata, metadata)
	o.Info("reassembled",
		zap.Stringer("header", out.Header()),
		zap.Bool("roundTrip", roundTrip))
	if !roundTrip {
		return fmt.Errorf("round trip mismatch")
	}
	return nil
}

func main() {
	cli.Run(new(opts), func(cmdline *cli.Context) error {
		o := cmdline.Argv().(*opts)
		if err := o.configureLogging(); err != nil {
			return err
		}
		defer func() {
			_ = o.Sync()
		}()
		return run(o)
	})
}
