package lang

func init() {
	Register(&LanguageSpec{
		Language:        TSX,
		FileExtensions:  []string{".tsx"},
		HasModules:      true,
		ImportNodeTypes: []string{"import_statement", "export_statement"},
		CallNodeTypes:   []string{"call_expression"},
	})
}
