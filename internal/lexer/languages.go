package lexer

// Go returns the rule lexer for Go.
func Go() *Rules {
	r := NewRules("go", ".go")

	r.AddBlock("/*", "*/", StyleComment)
	r.AddRule(`//[^\r\n]*`, StyleComment)
	r.AddBlock("`", "`", StyleString)
	r.AddRule(`"(?:[^"\\\r\n]|\\.)*"?`, StyleString)
	r.AddRule(`'(?:[^'\\\r\n]|\\.)*'?`, StyleString)
	r.AddRule(`\b0[xX][0-9a-fA-F_]+\b`, StyleNumber)
	r.AddRule(`\b0[oObB][0-7_]+\b`, StyleNumber)
	r.AddRule(`\b\d[\d_]*\.?\d*(?:[eE][+-]?\d+)?i?\b`, StyleNumber)

	r.AddKeywords(StyleKeyword,
		"break", "case", "chan", "const", "continue", "default", "defer",
		"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
		"interface", "map", "package", "range", "return", "select", "struct",
		"switch", "type", "var")
	r.AddKeywords(StyleConstant, "true", "false", "nil", "iota")
	r.AddKeywords(StyleBuiltin,
		"any", "bool", "byte", "comparable", "complex64", "complex128",
		"error", "float32", "float64", "int", "int8", "int16", "int32",
		"int64", "rune", "string", "uint", "uint8", "uint16", "uint32",
		"uint64", "uintptr",
		"append", "cap", "clear", "close", "complex", "copy", "delete",
		"imag", "len", "make", "max", "min", "new", "panic", "print",
		"println", "real", "recover")
	return r
}

// Python returns the rule lexer for Python.
func Python() *Rules {
	r := NewRules("python", ".py", ".pyw", ".pyi")

	r.AddBlock(`"""`, `"""`, StyleString)
	r.AddBlock(`'''`, `'''`, StyleString)
	r.AddRule(`#[^\r\n]*`, StyleComment)
	r.AddRule(`[rRbBuUfF]{0,2}"(?:[^"\\\r\n]|\\.)*"?`, StyleString)
	r.AddRule(`[rRbBuUfF]{0,2}'(?:[^'\\\r\n]|\\.)*'?`, StyleString)
	r.AddRule(`\b0[xX][0-9a-fA-F_]+\b`, StyleNumber)
	r.AddRule(`\b0[oObB][0-7_]+\b`, StyleNumber)
	r.AddRule(`\b\d[\d_]*\.?\d*(?:[eE][+-]?\d+)?[jJ]?\b`, StyleNumber)
	r.AddRule(`@[A-Za-z_][\w.]*`, StyleMeta)

	r.AddKeywords(StyleKeyword,
		"and", "as", "assert", "async", "await", "break", "case", "class",
		"continue", "def", "del", "elif", "else", "except", "finally", "for",
		"from", "global", "if", "import", "in", "is", "lambda", "match",
		"nonlocal", "not", "or", "pass", "raise", "return", "try", "while",
		"with", "yield")
	r.AddKeywords(StyleConstant, "True", "False", "None")
	r.AddKeywords(StyleBuiltin,
		"abs", "all", "any", "bool", "bytes", "callable", "dict", "dir",
		"enumerate", "filter", "float", "getattr", "hasattr", "int",
		"isinstance", "iter", "len", "list", "map", "max", "min", "next",
		"object", "open", "print", "range", "repr", "self", "set", "sorted",
		"str", "sum", "super", "tuple", "type", "zip")
	return r
}

// JavaScript returns the rule lexer for JavaScript and TypeScript.
func JavaScript() *Rules {
	r := NewRules("javascript", ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx")

	r.AddBlock("/*", "*/", StyleComment)
	r.AddRule(`//[^\r\n]*`, StyleComment)
	r.AddBlock("`", "`", StyleString)
	r.AddRule(`"(?:[^"\\\r\n]|\\.)*"?`, StyleString)
	r.AddRule(`'(?:[^'\\\r\n]|\\.)*'?`, StyleString)
	r.AddRule(`\b0[xX][0-9a-fA-F_]+n?\b`, StyleNumber)
	r.AddRule(`\b\d[\d_]*\.?\d*(?:[eE][+-]?\d+)?n?\b`, StyleNumber)
	r.AddRule(`@[A-Za-z_]\w*`, StyleMeta)

	r.AddKeywords(StyleKeyword,
		"async", "await", "break", "case", "catch", "class", "const",
		"continue", "debugger", "default", "delete", "do", "else", "enum",
		"export", "extends", "finally", "for", "from", "function", "if",
		"import", "in", "instanceof", "interface", "let", "new", "of",
		"return", "static", "super", "switch", "this", "throw", "try",
		"type", "typeof", "var", "void", "while", "with", "yield")
	r.AddKeywords(StyleConstant,
		"true", "false", "null", "undefined", "NaN", "Infinity")
	r.AddKeywords(StyleBuiltin,
		"Array", "Boolean", "console", "Date", "Error", "JSON", "Map",
		"Math", "Number", "Object", "Promise", "RegExp", "Set", "String",
		"Symbol")
	return r
}

// Rust returns the rule lexer for Rust.
func Rust() *Rules {
	r := NewRules("rust", ".rs")

	r.AddBlock("/*", "*/", StyleComment)
	r.AddRule(`//[^\r\n]*`, StyleComment)
	r.AddRule(`b?r#*"[^"]*"#*`, StyleString)
	r.AddRule(`b?"(?:[^"\\]|\\.)*"?`, StyleString)
	r.AddRule(`b?'(?:[^'\\\r\n]|\\.)'`, StyleString)
	r.AddRule(`#!?\[[^\]\r\n]*\]`, StyleMeta)
	r.AddRule(`\b0[xX][0-9a-fA-F_]+\b`, StyleNumber)
	r.AddRule(`\b0[oObB][0-7_]+\b`, StyleNumber)
	r.AddRule(`\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?[\d_]+)?(?:f32|f64|[iu](?:8|16|32|64|128|size))?\b`, StyleNumber)
	r.AddRule(`[A-Za-z_]\w*!`, StyleBuiltin)

	r.AddKeywords(StyleKeyword,
		"as", "async", "await", "break", "const", "continue", "crate", "dyn",
		"else", "enum", "extern", "fn", "for", "if", "impl", "in", "let",
		"loop", "match", "mod", "move", "mut", "pub", "ref", "return",
		"self", "Self", "static", "struct", "super", "trait", "type",
		"unsafe", "use", "where", "while")
	r.AddKeywords(StyleConstant, "true", "false", "None", "Some", "Ok", "Err")
	r.AddKeywords(StyleBuiltin,
		"bool", "char", "f32", "f64", "i8", "i16", "i32", "i64", "i128",
		"isize", "str", "u8", "u16", "u32", "u64", "u128", "usize",
		"Box", "Option", "Result", "String", "Vec")
	return r
}
