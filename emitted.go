package mapper

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

type opcode uint8

const (
	opMove    opcode = iota // raw byte copy; only for pointer-free types
	opString                // string header copy
	opTyped                 // typed assignment through reflect.NewAt, GC-safe for any type
	opConvert               // converter call between typed slots
	opPath                  // reflective fallback for paths through embedded pointers
)

var opNames = [...]string{opMove: "move", opString: "string", opTyped: "typed", opConvert: "convert", opPath: "path"}

func (op opcode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("opcode(%d)", op)
}

type instr struct {
	op      opcode
	srcOff  uintptr
	dstOff  uintptr
	size    uintptr
	srcTyp  reflect.Type
	dstTyp  reflect.Type
	pair    *FieldPair
	comment string
}

type program struct {
	dst  reflect.Type
	code []instr
}

type emitter struct {
	prog *program
}

func (e *emitter) emit(in instr) {
	code := e.prog.code
	// fuse adjacent raw moves that are contiguous on both sides
	if in.op == opMove && len(code) > 0 {
		last := &code[len(code)-1]
		if last.op == opMove && last.srcOff+last.size == in.srcOff && last.dstOff+last.size == in.dstOff {
			last.size += in.size
			last.comment += "+" + in.comment
			return
		}
	}
	e.prog.code = append(code, in)
}

// emitProgram lowers pairs into instructions addressed relative to the start of
// the source and destination structs.
func emitProgram(dst reflect.Type, pairs []FieldPair) *program {
	e := &emitter{prog: &program{dst: dst, code: make([]instr, 0, len(pairs))}}
	for i := range pairs {
		p := &pairs[i]
		name := p.From + "->" + p.To
		switch {
		case !p.src.direct || !p.dst.direct:
			e.emit(instr{op: opPath, pair: p, comment: name})
		case p.conv != nil:
			e.emit(instr{op: opConvert, srcOff: p.src.offset, dstOff: p.dst.offset, srcTyp: p.src.typ, dstTyp: p.dst.typ, pair: p, comment: name})
		case p.dst.typ.Kind() == reflect.String:
			e.emit(instr{op: opString, srcOff: p.src.offset, dstOff: p.dst.offset, comment: name})
		case !hasPointers(p.dst.typ):
			e.emit(instr{op: opMove, srcOff: p.src.offset, dstOff: p.dst.offset, size: p.dst.typ.Size(), comment: name})
		default:
			e.emit(instr{op: opTyped, srcOff: p.src.offset, dstOff: p.dst.offset, dstTyp: p.dst.typ, comment: name})
		}
	}
	return e.prog
}

func (p *program) run(dst, src reflect.Value) error {
	if !src.CanAddr() {
		tmp := reflect.New(src.Type()).Elem()
		tmp.Set(src)
		src = tmp
	}
	dp := dst.Addr().UnsafePointer()
	sp := src.Addr().UnsafePointer()
	for i := range p.code {
		in := &p.code[i]
		switch in.op {
		case opMove:
			copy(unsafe.Slice((*byte)(unsafe.Add(dp, in.dstOff)), in.size), unsafe.Slice((*byte)(unsafe.Add(sp, in.srcOff)), in.size))
		case opString:
			*(*string)(unsafe.Add(dp, in.dstOff)) = *(*string)(unsafe.Add(sp, in.srcOff))
		case opTyped:
			reflect.NewAt(in.dstTyp, unsafe.Add(dp, in.dstOff)).Elem().Set(reflect.NewAt(in.dstTyp, unsafe.Add(sp, in.srcOff)).Elem())
		case opConvert:
			sv := reflect.NewAt(in.srcTyp, unsafe.Add(sp, in.srcOff)).Elem()
			dv := reflect.NewAt(in.dstTyp, unsafe.Add(dp, in.dstOff)).Elem()
			if err := applyConverter(dv, in.pair.conv, sv, in.pair.To); err != nil {
				return err
			}
		case opPath:
			sv, ok := safeFieldByIndex(src, in.pair.src.index)
			if !ok {
				continue
			}
			dv, ok := allocFieldByIndex(dst, in.pair.dst.index)
			if !ok {
				continue
			}
			if err := assignField(dv, sv, in.pair); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders the program one instruction per line, for debugging.
func (p *program) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "new %s\n", p.dst)
	for _, in := range p.code {
		switch in.op {
		case opMove:
			fmt.Fprintf(&b, "%-8s dst+%d <- src+%d [%d]\t; %s\n", in.op, in.dstOff, in.srcOff, in.size, in.comment)
		case opPath:
			fmt.Fprintf(&b, "%-8s %v <- %v\t; %s\n", in.op, in.pair.dst.index, in.pair.src.index, in.comment)
		default:
			fmt.Fprintf(&b, "%-8s dst+%d <- src+%d\t; %s\n", in.op, in.dstOff, in.srcOff, in.comment)
		}
	}
	b.WriteString("ret\n")
	return b.String()
}

// hasPointers reports whether values of t hold anything the garbage collector traces.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	}
	return true
}
