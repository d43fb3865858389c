package fragment

import (
	"encoding"
	"encoding/xml"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

type fieldKind uint8

const (
	fieldElem fieldKind = iota
	fieldAttr
	fieldCharData
	fieldAny
)

type fieldPlan struct {
	index []int
	name  string
	kind  fieldKind
	slice bool
	ptr   bool
	elem  reflect.Type // value type after stripping slice and pointer
}

type structPlan struct {
	name     string
	xmlName  []int
	elems    map[string]*fieldPlan
	attrs    map[string]*fieldPlan
	chardata *fieldPlan
	any      *fieldPlan
}

var (
	xmlNameType   = reflect.TypeOf(xml.Name{})
	textUnmarshal = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	plans         sync.Map // reflect.Type -> *structPlan
)

// planFor builds (once per type) the field layout of struct type t
func planFor(t reflect.Type) (*structPlan, error) {
	if p, ok := plans.Load(t); ok {
		return p.(*structPlan), nil
	}
	p, err := buildPlan(t, map[reflect.Type]bool{})
	if err != nil {
		return nil, err
	}
	actual, _ := plans.LoadOrStore(t, p)
	return actual.(*structPlan), nil
}

func buildPlan(t reflect.Type, visiting map[reflect.Type]bool) (*structPlan, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fragment: %s is not a struct", t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	sp := &structPlan{elems: map[string]*fieldPlan{}, attrs: map[string]*fieldPlan{}}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("xml")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if strings.Contains(name, ">") {
			return nil, fmt.Errorf("fragment: %s.%s: nested paths are not supported", t, f.Name)
		}
		if f.Type == xmlNameType {
			if f.Name == "XMLName" {
				sp.xmlName = f.Index
				sp.name = name
			}
			continue
		}
		fp := &fieldPlan{index: f.Index, name: name}
		ft := f.Type
		if ft.Kind() == reflect.Slice && ft.Elem().Kind() != reflect.Uint8 {
			fp.slice = true
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Pointer {
			fp.ptr = true
			ft = ft.Elem()
		}
		fp.elem = ft

		switch {
		case hasOpt(opts, "attr"):
			fp.kind = fieldAttr
			if fp.name == "" {
				fp.name = f.Name
			}
			if fp.slice || !isScalar(ft) {
				return nil, fmt.Errorf("fragment: %s.%s: attributes must be scalar", t, f.Name)
			}
			sp.attrs[fp.name] = fp
		case hasOpt(opts, "chardata"):
			fp.kind = fieldCharData
			if fp.slice || !isScalar(ft) {
				return nil, fmt.Errorf("fragment: %s.%s: chardata must be scalar", t, f.Name)
			}
			sp.chardata = fp
		case hasOpt(opts, "any"):
			fp.kind = fieldAny
			if ft.Kind() != reflect.Interface || fp.ptr {
				return nil, fmt.Errorf("fragment: %s.%s: ,any fields must be interfaces", t, f.Name)
			}
			sp.any = fp
		default:
			fp.kind = fieldElem
			if fp.name == "" {
				fp.name = f.Name
			}
			if !isScalar(ft) {
				if ft.Kind() != reflect.Struct {
					return nil, fmt.Errorf("fragment: %s.%s: unsupported type %s", t, f.Name, f.Type)
				}
				if _, cached := plans.Load(ft); !cached && !visiting[ft] {
					np, err := buildPlan(ft, visiting)
					if err != nil {
						return nil, err
					}
					plans.LoadOrStore(ft, np)
				}
			}
			sp.elems[fp.name] = fp
		}
	}
	return sp, nil
}

func hasOpt(opts, want string) bool {
	for _, o := range strings.Split(opts, ",") {
		if o == want {
			return true
		}
	}
	return false
}

func isScalar(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(textUnmarshal) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// binder copies a validated node tree into Go values
type binder struct {
	policy Policy
}

func (b *binder) bindStruct(v reflect.Value, n *node, path string) *Violation {
	sp, err := planFor(v.Type())
	if err != nil {
		return &Violation{Kind: ErrUnbound, Path: path, Offset: n.offset, Detail: err.Error()}
	}
	if sp.xmlName != nil {
		v.FieldByIndex(sp.xmlName).Set(reflect.ValueOf(xml.Name{Local: n.name}))
	}

	for name, val := range n.attrs {
		fp := sp.attrs[name]
		if fp == nil && !b.policy.StrictAttributeNames {
			fp = sp.attrByLocal(name)
		}
		if fp == nil {
			continue
		}
		if vio := b.setScalar(field(v, fp), val, path+"/@"+name, n.offset); vio != nil {
			return vio
		}
	}

	if sp.chardata != nil {
		if vio := b.setScalar(field(v, sp.chardata), n.text.String(), path, n.offset); vio != nil {
			return vio
		}
	}

	assigned := map[*fieldPlan]bool{}
	for _, kid := range n.kids {
		kp := path + "/" + kid.name
		fp := sp.elems[kid.name]
		if fp == nil {
			fp = sp.any
		}
		if fp == nil {
			if b.policy.Pedantic {
				return &Violation{Kind: ErrUnbound, Path: kp, Offset: kid.offset, Detail: fmt.Sprintf("%s has no field for %s", v.Type(), kid.name)}
			}
			continue
		}
		if !fp.slice && assigned[fp] && b.policy.RejectRepeated {
			return &Violation{Kind: ErrRepeated, Path: kp, Offset: kid.offset, Detail: fmt.Sprintf("%s.%s holds a single %s", v.Type(), v.Type().FieldByIndex(fp.index).Name, kid.name)}
		}
		assigned[fp] = true

		var (
			val reflect.Value
			vio *Violation
		)
		if fp.kind == fieldAny {
			val, vio = b.polymorphic(fp, kid, kp)
		} else {
			val, vio = b.value(fp, kid, kp)
		}
		if vio != nil {
			return vio
		}
		dst := v.FieldByIndex(fp.index)
		if fp.slice {
			dst.Set(reflect.Append(dst, val))
		} else {
			dst.Set(val)
		}
	}
	return nil
}

func (sp *structPlan) attrByLocal(name string) *fieldPlan {
	for k, fp := range sp.attrs {
		if strings.EqualFold(localPart(k), localPart(name)) {
			return fp
		}
	}
	return nil
}

// field returns the settable scalar behind fp, allocating a pointer if needed
func field(v reflect.Value, fp *fieldPlan) reflect.Value {
	f := v.FieldByIndex(fp.index)
	if fp.ptr {
		if f.IsNil() {
			f.Set(reflect.New(fp.elem))
		}
		return f.Elem()
	}
	return f
}

// value decodes kid into a fresh value shaped for fp (pointer or not)
func (b *binder) value(fp *fieldPlan, kid *node, path string) (reflect.Value, *Violation) {
	nv := reflect.New(fp.elem)
	if vio := b.fill(nv.Elem(), kid, path); vio != nil {
		return reflect.Value{}, vio
	}
	if fp.ptr {
		return nv, nil
	}
	return nv.Elem(), nil
}

func (b *binder) fill(v reflect.Value, n *node, path string) *Violation {
	if isScalar(v.Type()) {
		if len(n.kids) > 0 && b.policy.Pedantic {
			return &Violation{Kind: ErrUnbound, Path: path, Offset: n.offset, Detail: fmt.Sprintf("scalar %s cannot hold child elements", v.Type())}
		}
		return b.setScalar(v, n.text.String(), path, n.offset)
	}
	return b.bindStruct(v, n, path)
}

func (b *binder) polymorphic(fp *fieldPlan, kid *node, path string) (reflect.Value, *Violation) {
	if !b.policy.AutoPolymorphic {
		return reflect.Value{}, &Violation{Kind: ErrPolymorphic, Path: path, Offset: kid.offset, Detail: "polymorphic resolution is disabled"}
	}
	t, ok := b.policy.TypeFor(kid.name)
	if !ok {
		return reflect.Value{}, &Violation{Kind: ErrPolymorphic, Path: path, Offset: kid.offset, Detail: fmt.Sprintf("no type registered for %s", kid.name)}
	}
	nv := reflect.New(t)
	if vio := b.fill(nv.Elem(), kid, path); vio != nil {
		return reflect.Value{}, vio
	}
	switch {
	case nv.Type().AssignableTo(fp.elem):
		return nv, nil
	case t.AssignableTo(fp.elem):
		return nv.Elem(), nil
	}
	return reflect.Value{}, &Violation{Kind: ErrPolymorphic, Path: path, Offset: kid.offset, Detail: fmt.Sprintf("%s does not implement %s", t, fp.elem)}
}

func (b *binder) setScalar(v reflect.Value, s, path string, offset int64) *Violation {
	bad := func(detail string) *Violation {
		return &Violation{Kind: ErrScalar, Path: path, Offset: offset, Detail: detail}
	}
	if v.CanAddr() {
		if tu, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			if err := tu.UnmarshalText([]byte(s)); err != nil {
				return bad(err.Error())
			}
			return nil
		}
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		bv, ok := b.policy.parseBool(s)
		if !ok {
			return bad(fmt.Sprintf("%q is not a boolean", s))
		}
		v.SetBool(bv)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		iv, err := strconv.ParseInt(strings.TrimSpace(s), 10, v.Type().Bits())
		if err != nil {
			return bad(fmt.Sprintf("%q is not an integer", s))
		}
		v.SetInt(iv)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uv, err := strconv.ParseUint(strings.TrimSpace(s), 10, v.Type().Bits())
		if err != nil {
			return bad(fmt.Sprintf("%q is not an unsigned integer", s))
		}
		v.SetUint(uv)
	case reflect.Float32, reflect.Float64:
		fv, ok := b.policy.parseFloat(s, v.Type().Bits())
		if !ok {
			return bad(fmt.Sprintf("%q is not a float", s))
		}
		v.SetFloat(fv)
	default:
		return bad(fmt.Sprintf("unsupported scalar %s", v.Type()))
	}
	return nil
}
