package witschema

import (
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/ctf-runtime/errors"
	"github.com/wippyai/ctf-runtime/types"
)

// Describe returns the WIT type of decl.
func Describe(decl types.Declaration) (wit.Type, error) {
	return describe(decl, nil)
}

// DescribeNamed returns decl as a named type definition.
func DescribeNamed(name string, decl types.Declaration) (*wit.TypeDef, error) {
	typ, err := describe(decl, []string{name})
	if err != nil {
		return nil, err
	}
	witName := toKebabCase(name)
	if witName == "" {
		return nil, invalidName([]string{name}, name)
	}
	if def, ok := typ.(*wit.TypeDef); ok {
		def.Name = &witName
		return def, nil
	}
	kind, ok := typ.(wit.TypeDefKind)
	if !ok {
		return nil, errors.New(errors.PhaseDeclare, errors.KindUnsupported).
			Path(name).
			Detail("%T cannot be named", typ).
			Build()
	}
	return &wit.TypeDef{Name: &witName, Kind: kind}, nil
}

func describe(decl types.Declaration, path []string) (wit.Type, error) {
	switch d := decl.(type) {
	case *types.IntegerDeclaration:
		return describeInteger(d, path)
	case *types.FloatDeclaration:
		switch d.Bits() {
		case 32:
			return wit.F32{}, nil
		case 64:
			return wit.F64{}, nil
		}
		return nil, errors.New(errors.PhaseDeclare, errors.KindUnsupported).
			Path(path...).
			TypeName(types.KindFloat.String()).
			Detail("float width %d has no WIT equivalent", d.Bits()).
			Build()
	case *types.StringDeclaration:
		return wit.String{}, nil
	case *types.SequenceDeclaration:
		return describeList(d.Element(), path)
	case *types.ArrayDeclaration:
		return describeList(d.Element(), path)
	case *types.StructDeclaration:
		return describeRecord(d, path)
	case *types.EnumDeclaration:
		return describeEnum(d, path)
	case *types.VariantDeclaration:
		return describeVariant(d, path)
	case nil:
		return nil, errors.InvalidInput(errors.PhaseDeclare, "nil declaration")
	default:
		return nil, errors.New(errors.PhaseDeclare, errors.KindUnsupported).
			Path(path...).
			Detail("declaration type %T", decl).
			Build()
	}
}

func describeInteger(d *types.IntegerDeclaration, path []string) (wit.Type, error) {
	bits := d.Bits()
	switch {
	case bits == 0 || bits > 64:
		return nil, errors.New(errors.PhaseDeclare, errors.KindUnsupported).
			Path(path...).
			TypeName(types.KindInteger.String()).
			Detail("integer width %d", bits).
			Build()
	case bits <= 8:
		if d.Signed() {
			return wit.S8{}, nil
		}
		return wit.U8{}, nil
	case bits <= 16:
		if d.Signed() {
			return wit.S16{}, nil
		}
		return wit.U16{}, nil
	case bits <= 32:
		if d.Signed() {
			return wit.S32{}, nil
		}
		return wit.U32{}, nil
	default:
		if d.Signed() {
			return wit.S64{}, nil
		}
		return wit.U64{}, nil
	}
}

// describeList maps 8-bit text elements to string, everything else to list<T>.
func describeList(elem types.Declaration, path []string) (wit.Type, error) {
	if isText(elem) {
		return wit.String{}, nil
	}
	inner, err := describe(elem, append(append([]string{}, path...), "[elem]"))
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: &wit.List{Type: inner}}, nil
}

func isText(decl types.Declaration) bool {
	i, ok := decl.(*types.IntegerDeclaration)
	return ok && i.Bits() == 8 && i.Alignment() == 8 && i.Encoding() != types.EncodingNone
}

func describeRecord(d *types.StructDeclaration, path []string) (wit.Type, error) {
	seen := make(map[string]struct{}, len(d.Fields()))
	fields := make([]wit.Field, 0, len(d.Fields()))
	for _, f := range d.Fields() {
		fieldPath := append(append([]string{}, path...), f.Name)
		name, err := uniqueName(seen, fieldPath, f.Name)
		if err != nil {
			return nil, err
		}
		typ, err := describe(f.Declaration, fieldPath)
		if err != nil {
			return nil, err
		}
		fields = append(fields, wit.Field{Name: name, Type: typ})
	}
	return &wit.TypeDef{Kind: &wit.Record{Fields: fields}}, nil
}

func describeEnum(d *types.EnumDeclaration, path []string) (wit.Type, error) {
	labels := d.Labels()
	seen := make(map[string]struct{}, len(labels))
	cases := make([]wit.EnumCase, 0, len(labels))
	for _, label := range labels {
		name, err := uniqueName(seen, path, label)
		if err != nil {
			return nil, err
		}
		cases = append(cases, wit.EnumCase{Name: name})
	}
	return &wit.TypeDef{Kind: &wit.Enum{Cases: cases}}, nil
}

func describeVariant(d *types.VariantDeclaration, path []string) (wit.Type, error) {
	seen := make(map[string]struct{}, len(d.Cases()))
	cases := make([]wit.Case, 0, len(d.Cases()))
	for _, c := range d.Cases() {
		casePath := append(append([]string{}, path...), c.Name)
		name, err := uniqueName(seen, casePath, c.Name)
		if err != nil {
			return nil, err
		}
		typ, err := describe(c.Declaration, casePath)
		if err != nil {
			return nil, err
		}
		cases = append(cases, wit.Case{Name: name, Type: typ})
	}
	return &wit.TypeDef{Kind: &wit.Variant{Cases: cases}}, nil
}

func uniqueName(seen map[string]struct{}, path []string, name string) (string, error) {
	kebab := toKebabCase(name)
	if kebab == "" {
		return "", invalidName(path, name)
	}
	if _, ok := seen[kebab]; ok {
		return "", errors.New(errors.PhaseDeclare, errors.KindDuplicateField).
			Path(path...).
			Value(kebab).
			Detail("%q collides with an earlier name as %q", name, kebab).
			Build()
	}
	seen[kebab] = struct{}{}
	return kebab, nil
}

func invalidName(path []string, name string) error {
	return errors.New(errors.PhaseDeclare, errors.KindInvalidInput).
		Path(path...).
		Value(name).
		Detail("%q has no WIT identifier", name).
		Build()
}

// toKebabCase converts CTF identifiers (snake_case, camelCase, UPPER_CASE,
// leading underscores) to WIT identifiers. Runes that cannot appear in one
// are dropped, as is a digit starting a word.
func toKebabCase(s string) string {
	var b strings.Builder
	sep, lower := false, false
	for _, r := range s {
		upper := r >= 'A' && r <= 'Z'
		switch {
		case upper:
			if lower {
				sep = true
			}
			r += 'a' - 'A'
		case r == '_' || r == '-' || r == '.' || r == ' ':
			sep, lower = true, false
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		default:
			continue
		}
		lower = !upper
		if r >= '0' && r <= '9' && (b.Len() == 0 || sep) {
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('-')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}
