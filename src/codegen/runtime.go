package codegen

import "tinygo.org/x/go-llvm"

var ptrType = llvm.PointerType(llvm.Int8Type(), 0)
var i32 = llvm.Int32Type()
var i64 = llvm.Int64Type()
var f64 = llvm.DoubleType()
var i1 = llvm.Int1Type()
var voidT = llvm.VoidType()

// runtimeSig is the logical signature the code generator declares for
// one runtime ABI function (spec §6's table). All pointers are opaque
// i8* per the spec's "all pointers are opaque" note.
type runtimeSig struct {
	params   []llvm.Type
	ret      llvm.Type
	variadic bool
}

// runtimeSigs is the full runtime ABI surface the generator may call;
// entries are declared lazily on first use (spec §4.7 "a table of
// external runtime function declarations keyed by name, declared
// lazily on first use").
var runtimeSigs = map[string]runtimeSig{
	"py_incref":  {params: []llvm.Type{ptrType}, ret: voidT},
	"py_decref":  {params: []llvm.Type{ptrType}, ret: voidT},

	"py_create_int":    {params: []llvm.Type{i64}, ret: ptrType},
	"py_create_double": {params: []llvm.Type{f64}, ret: ptrType},
	"py_create_bool":   {params: []llvm.Type{i1}, ret: ptrType},
	"py_create_string": {params: []llvm.Type{ptrType}, ret: ptrType},

	"py_extract_int":    {params: []llvm.Type{ptrType}, ret: i64},
	"py_extract_double": {params: []llvm.Type{ptrType}, ret: f64},
	"py_extract_bool":   {params: []llvm.Type{ptrType}, ret: i1},

	"py_create_list":        {params: []llvm.Type{i32, i32}, ret: ptrType},
	"py_list_len":           {params: []llvm.Type{ptrType}, ret: i32},
	"py_list_get_item":      {params: []llvm.Type{ptrType, i32}, ret: ptrType},
	"py_list_set_item":      {params: []llvm.Type{ptrType, i32, ptrType}, ret: voidT},
	"py_list_append":        {params: []llvm.Type{ptrType, ptrType}, ret: voidT},
	"py_list_copy":          {params: []llvm.Type{ptrType}, ret: ptrType},

	"py_create_dict":   {params: []llvm.Type{i32, i32}, ret: ptrType},
	"py_dict_len":      {params: []llvm.Type{ptrType}, ret: i32},
	"py_dict_get_item": {params: []llvm.Type{ptrType, ptrType}, ret: ptrType},
	"py_dict_set_item": {params: []llvm.Type{ptrType, ptrType, ptrType}, ret: voidT},
	"py_dict_keys":     {params: []llvm.Type{ptrType}, ret: ptrType},

	"py_string_get_char":  {params: []llvm.Type{ptrType, i32}, ret: ptrType},

	"py_object_add":      {params: []llvm.Type{ptrType, ptrType}, ret: ptrType},
	"py_object_subtract":  {params: []llvm.Type{ptrType, ptrType}, ret: ptrType},
	"py_object_multiply":  {params: []llvm.Type{ptrType, ptrType}, ret: ptrType},
	"py_object_divide":     {params: []llvm.Type{ptrType, ptrType}, ret: ptrType},
	"py_object_floordiv":   {params: []llvm.Type{ptrType, ptrType}, ret: ptrType},
	"py_object_modulo":     {params: []llvm.Type{ptrType, ptrType}, ret: ptrType},
	"py_object_compare":    {params: []llvm.Type{ptrType, ptrType, i32}, ret: ptrType},
	"py_object_is":         {params: []llvm.Type{ptrType, ptrType}, ret: ptrType},
	"py_object_truthy":     {params: []llvm.Type{ptrType}, ret: i1},
	"py_container_contains": {params: []llvm.Type{ptrType, ptrType}, ret: ptrType},

	"py_convert_int_to_double":    {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_double_to_int":    {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_int_to_bool":      {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_bool_to_int":      {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_int_to_string":    {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_double_to_string": {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_bool_to_string":   {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_any_to_int":       {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_any_to_double":    {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_any_to_bool":      {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_convert_any_preserve_type": {params: []llvm.Type{ptrType}, ret: ptrType},

	"py_get_object_type_id": {params: []llvm.Type{ptrType}, ret: i32},
	"py_check_type":         {params: []llvm.Type{ptrType, i32}, ret: i1},
	"py_raise_type_error":   {params: []llvm.Type{i32, i32}, ret: voidT},

	"py_object_copy":      {params: []llvm.Type{ptrType, i32}, ret: ptrType},
	"py_object_deep_copy":  {params: []llvm.Type{ptrType, i32}, ret: ptrType},

	"py_get_none": {params: nil, ret: ptrType},

	"py_get_iter":   {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_iter_next":  {params: []llvm.Type{ptrType}, ret: ptrType},

	"py_print_int":    {params: []llvm.Type{i64}, ret: voidT},
	"py_print_double": {params: []llvm.Type{f64}, ret: voidT},
	"py_print_bool":   {params: []llvm.Type{i1}, ret: voidT},
	"py_print_string": {params: []llvm.Type{ptrType}, ret: voidT},
	"py_print_object": {params: []llvm.Type{ptrType}, ret: voidT},

	"py_import_module":   {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_create_class":    {params: []llvm.Type{ptrType}, ret: ptrType},
	"py_add_base_class":  {params: []llvm.Type{ptrType, ptrType}, ret: voidT},
	"py_add_method":      {params: []llvm.Type{ptrType, ptrType, ptrType}, ret: voidT},
}

// runtimeFunc returns the declared llvm.Value for a runtime ABI
// function, declaring it in the module on first use (spec §4.7).
func (g *Generator) runtimeFunc(name string) llvm.Value {
	if v, ok := g.runtime[name]; ok {
		return v
	}
	sig, ok := runtimeSigs[name]
	if !ok {
		panic("codegen: undeclared runtime function " + name)
	}
	ftyp := llvm.FunctionType(sig.ret, sig.params, sig.variadic)
	fn := llvm.AddFunction(g.m, name, ftyp)
	g.runtime[name] = fn
	return fn
}
