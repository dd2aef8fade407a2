package trace

import (
	"context"

	"go.uber.org/zap"

	ctfruntime "github.com/wippyai/ctf-runtime"
	"github.com/wippyai/ctf-runtime/config"
	"github.com/wippyai/ctf-runtime/errors"
	"github.com/wippyai/ctf-runtime/stream"
	"github.com/wippyai/ctf-runtime/wasmmem"
)

// CloseFunc releases a buffer created by NewBuffer.
type CloseFunc func(ctx context.Context) error

// NewBuffer stages data in the buffer backend selected by cfg. The "bytes"
// backend copies data into memory; the "wasm" backend copies it into a
// standalone wazero linear memory and exposes exactly len(data) bytes.
func NewBuffer(ctx context.Context, cfg config.StreamConfig, data []byte) (ctfruntime.Buffer, CloseFunc, error) {
	switch cfg.Backend {
	case config.BackendBytes, "":
		buf := stream.NewBytes(append([]byte(nil), data...))
		return buf, func(context.Context) error { return nil }, nil
	case config.BackendWasm:
		pages := max(cfg.WasmPages, 1)
		inst, err := wasmmem.Open(ctx, pages)
		if err != nil {
			return nil, nil, errors.Wrap(errors.PhaseConfig, errors.KindUnsupported, err, "open wasm memory")
		}
		mem := inst.Memory()
		if len(data) > 0 {
			if err := mem.Write(0, data); err != nil {
				_ = inst.Close(ctx)
				return nil, nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "stage trace in wasm memory")
			}
		}
		Logger().Debug("trace staged in wasm memory",
			zap.Int("bytes", len(data)),
			zap.Uint32("memory", mem.Size()))
		return mem.Region(0, uint32(len(data))), inst.Close, nil
	default:
		return nil, nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Value(cfg.Backend).
			Detail("unknown stream backend %q", cfg.Backend).
			Build()
	}
}
