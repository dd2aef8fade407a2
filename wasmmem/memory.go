package wasmmem

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	ctfruntime "github.com/wippyai/ctf-runtime"
)

// PageSize is the size of one wasm memory page in bytes.
const PageSize = 65536

// memoryModule is a module whose only content is one exported memory
// named "mem" with a minimum of one page.
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 memory, min 1 page
	0x07, 0x07, 0x01, 0x03, 'm', 'e', 'm', 0x02, 0x00, // export "mem"
}

// Memory wraps wazero memory to implement ctfruntime.Buffer.
// Writes past the current size grow the memory by whole pages.
type Memory struct {
	mem api.Memory
}

// New wraps an existing wazero memory, typically a guest module's.
func New(mem api.Memory) *Memory {
	return &Memory{mem: mem}
}

func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if err := m.ensure(end); err != nil {
		return err
	}
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *Memory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

func (m *Memory) ensure(end uint64) error {
	size := uint64(m.mem.Size())
	if end <= size {
		return nil
	}
	pages := (end - size + PageSize - 1) / PageSize
	if _, ok := m.mem.Grow(uint32(pages)); !ok {
		return fmt.Errorf("grow memory by %d pages failed", pages)
	}
	return nil
}

// Region returns a window of length bytes starting at base.
func (m *Memory) Region(base, length uint32) *Region {
	return &Region{mem: m, base: base, length: length}
}

// Region is a fixed-size window of a Memory addressed from zero. Its Size is
// the window length, so a cursor over it stops where the staged data ends
// rather than at the page boundary.
type Region struct {
	mem    *Memory
	base   uint32
	length uint32
}

func (r *Region) Read(offset uint32, length uint32) ([]byte, error) {
	if uint64(offset)+uint64(length) > uint64(r.length) {
		return nil, fmt.Errorf("read out of region: offset=%d, length=%d, size=%d", offset, length, r.length)
	}
	return r.mem.Read(r.base+offset, length)
}

func (r *Region) Write(offset uint32, data []byte) error {
	if uint64(offset)+uint64(len(data)) > uint64(r.length) {
		return fmt.Errorf("write out of region: offset=%d, length=%d, size=%d", offset, len(data), r.length)
	}
	return r.mem.Write(r.base+offset, data)
}

func (r *Region) Size() uint32 {
	return r.length
}

// Instance owns a wazero runtime holding a standalone memory.
type Instance struct {
	runtime wazero.Runtime
	module  api.Module
	memory  *Memory
}

// Open instantiates a standalone linear memory of at least pages pages.
func Open(ctx context.Context, pages uint32) (*Instance, error) {
	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, memoryModule)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate memory module: %w", err)
	}
	mem := mod.ExportedMemory("mem")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("memory module has no exported memory")
	}
	if pages > 1 {
		if _, ok := mem.Grow(pages - 1); !ok {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("grow memory to %d pages failed", pages)
		}
	}
	return &Instance{runtime: rt, module: mod, memory: New(mem)}, nil
}

// Memory returns the instance memory as a Buffer.
func (i *Instance) Memory() *Memory {
	return i.memory
}

// Close releases the runtime and its memory.
func (i *Instance) Close(ctx context.Context) error {
	return i.runtime.Close(ctx)
}

var (
	_ ctfruntime.Buffer = (*Memory)(nil)
	_ ctfruntime.Buffer = (*Region)(nil)
)
