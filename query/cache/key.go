package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/sbelzile-nexapp/cotton/query/ast"
)

// Key builds the cache key of q compiled for dialect, in the form
// "dialect:table:hash". Table names are stripped of ':' so patterns stay
// unambiguous.
func Key(dialect string, q ast.Query) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|", q.Type(), q.Table())

	switch query := q.(type) {
	case *ast.SelectQuery:
		writeStrings(h, query.Columns)
		writeConstraints(h, query.Constraints)
	case *ast.InsertQuery:
		for _, record := range query.Records {
			writeRecord(h, record)
		}
		writeStrings(h, query.Returning)
	case *ast.UpdateQuery:
		writeRecord(h, query.Values)
		writeStrings(h, query.Returning)
		writeConstraints(h, query.Constraints)
	case *ast.DeleteQuery:
		writeConstraints(h, query.Constraints)
	default:
		fmt.Fprintf(h, "%T", q)
	}

	table := strings.ReplaceAll(q.Table(), ":", "_")
	return fmt.Sprintf("%s:%s:%s", dialect, table, hex.EncodeToString(h.Sum(nil))[:32])
}

func writeStrings(h hash.Hash, s []string) {
	fmt.Fprintf(h, "%q|", s)
}

func writeRecord(h hash.Hash, r ast.Record) {
	h.Write([]byte("{"))
	for _, f := range r {
		fmt.Fprintf(h, "%q=", f.Column)
		writeValue(h, f.Value)
		h.Write([]byte(","))
	}
	h.Write([]byte("}"))
}

func writeConstraints(h hash.Hash, c ast.Constraints) {
	for _, w := range c.Wheres {
		fmt.Fprintf(h, "w(%q %q %d ", w.Column, w.Operator, w.Type)
		writeValue(h, w.Value)
		h.Write([]byte(")"))
	}
	for _, o := range c.Orders {
		fmt.Fprintf(h, "o(%q %q)", o.Column, o.Direction)
	}
	if c.Limit != nil {
		fmt.Fprintf(h, "l(%d)", *c.Limit)
	}
	if c.Offset != nil {
		fmt.Fprintf(h, "f(%d)", *c.Offset)
	}
}

// writeValue writes a pointer-free rendering of v, keeping its type.
func writeValue(h hash.Hash, v interface{}) {
	writeReflect(h, reflect.ValueOf(v), map[uintptr]bool{})
}

// writeReflect renders rv, following pointers, interfaces, struct fields
// and map entries so anything reachable from a value is part of the key.
// seen holds the pointers on the current path and breaks cycles.
func writeReflect(w io.Writer, rv reflect.Value, seen map[uintptr]bool) {
	if !rv.IsValid() {
		io.WriteString(w, "nil")
		return
	}

	if rv.Type() == timeType && rv.CanInterface() {
		fmt.Fprintf(w, "time(%s)", rv.Interface().(time.Time).Format(time.RFC3339Nano))
		return
	}

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			fmt.Fprintf(w, "%s(nil)", rv.Type())
			return
		}
		addr := rv.Pointer()
		if seen[addr] {
			io.WriteString(w, "<cycle>")
			return
		}
		seen[addr] = true
		io.WriteString(w, "*")
		writeReflect(w, rv.Elem(), seen)
		delete(seen, addr)
	case reflect.Interface:
		if rv.IsNil() {
			fmt.Fprintf(w, "%s(nil)", rv.Type())
			return
		}
		writeReflect(w, rv.Elem(), seen)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			fmt.Fprintf(w, "%s(nil)", rv.Type())
			return
		}
		fmt.Fprintf(w, "%s[", rv.Type())
		for i := 0; i < rv.Len(); i++ {
			writeReflect(w, rv.Index(i), seen)
			io.WriteString(w, ",")
		}
		io.WriteString(w, "]")
	case reflect.Struct:
		fmt.Fprintf(w, "%s{", rv.Type())
		for i := 0; i < rv.NumField(); i++ {
			fmt.Fprintf(w, "%s:", rv.Type().Field(i).Name)
			writeReflect(w, rv.Field(i), seen)
			io.WriteString(w, ",")
		}
		io.WriteString(w, "}")
	case reflect.Map:
		if rv.IsNil() {
			fmt.Fprintf(w, "%s(nil)", rv.Type())
			return
		}
		entries := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			var b strings.Builder
			writeReflect(&b, iter.Key(), seen)
			b.WriteString("=")
			writeReflect(&b, iter.Value(), seen)
			entries = append(entries, b.String())
		}
		sort.Strings(entries)
		fmt.Fprintf(w, "%s{%s}", rv.Type(), strings.Join(entries, ","))
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		// Only identity is available.
		fmt.Fprintf(w, "%s(%#x)", rv.Type(), rv.Pointer())
	default:
		fmt.Fprintf(w, "%s(%#v)", rv.Type(), rv)
	}
}

var timeType = reflect.TypeOf(time.Time{})

// isNilQuery reports whether q is nil or a typed nil pointer.
func isNilQuery(q ast.Query) bool {
	if q == nil {
		return true
	}
	rv := reflect.ValueOf(q)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
