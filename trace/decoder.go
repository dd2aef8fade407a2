package trace

import (
	"io"

	"go.uber.org/zap"

	ctfruntime "github.com/wippyai/ctf-runtime"
	"github.com/wippyai/ctf-runtime/errors"
	"github.com/wippyai/ctf-runtime/types"
)

// remainder is implemented by cursors that know how much input is left.
type remainder interface {
	Remaining() uint64
}

// Decoder reads records from a cursor into a fixed set of root definitions,
// or writes them when the cursor is in write mode.
type Decoder struct {
	cur     ctfruntime.Cursor
	scope   *types.Scope
	roots   []types.Definition
	records uint64
	closed  bool
}

func NewDecoder(cur ctfruntime.Cursor) *Decoder {
	return &Decoder{
		cur:   cur,
		scope: types.NewRootScope(),
	}
}

// Bind builds a root definition of decl registered as name. Roots are
// processed in bind order. The decoder holds the definition until Close.
func (d *Decoder) Bind(name string, decl types.Declaration) (types.Definition, error) {
	if d.closed {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "bind on closed decoder")
	}
	def, err := types.NewDefinition(decl, d.scope, name, len(d.roots), name)
	if err != nil {
		return nil, err
	}
	d.roots = append(d.roots, def)
	Logger().Debug("root bound",
		zap.String("name", name),
		zap.Stringer("kind", decl.Kind()))
	return def, nil
}

// Next processes one record. It returns io.EOF when a read cursor has no
// input left at a record boundary. On failure the definitions keep whatever
// was decoded before the error and the cursor stays where it stopped.
func (d *Decoder) Next() error {
	if d.closed {
		return errors.InvalidInput(errors.PhaseDecode, "next on closed decoder")
	}
	if d.cur.Mode() == ctfruntime.ModeRead {
		if r, ok := d.cur.(remainder); ok && r.Remaining() == 0 {
			return io.EOF
		}
	}
	start := d.cur.Offset()
	for _, root := range d.roots {
		if err := types.RW(d.cur, root); err != nil {
			Logger().Warn("record failed",
				zap.Uint64("record", d.records),
				zap.Uint64("start", start),
				zap.Uint64("offset", d.cur.Offset()),
				zap.String("root", root.Name()),
				zap.Error(err))
			return err
		}
	}
	d.records++
	return nil
}

// Records returns the number of records processed successfully.
func (d *Decoder) Records() uint64 {
	return d.records
}

func (d *Decoder) Cursor() ctfruntime.Cursor {
	return d.cur
}

// Roots returns the root definitions in bind order.
func (d *Decoder) Roots() []types.Definition {
	return d.roots
}

// Lookup resolves a dotted field path from the root scope, e.g. "event.payload.len".
func (d *Decoder) Lookup(path string) (types.Definition, error) {
	return d.scope.Resolve(types.ParsePath(path))
}

// Close frees the root definitions in reverse bind order and releases the
// root scope. Definitions returned by Bind must not be used afterwards.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	for i := len(d.roots) - 1; i >= 0; i-- {
		types.FreeDefinition(d.roots[i])
	}
	d.roots = nil
	d.scope.Release()
	return nil
}
