package lang

func init() {
	Register(&LanguageSpec{
		Language:        JavaScript,
		FileExtensions:  []string{".js", ".jsx", ".mjs", ".cjs"},
		HasModules:      true,
		ImportNodeTypes: []string{"import_statement", "export_statement"},
		CallNodeTypes:   []string{"call_expression"},
	})
}
