package lang

func init() {
	Register(&LanguageSpec{
		Language:        TypeScript,
		FileExtensions:  []string{".ts", ".mts", ".cts"},
		HasModules:      true,
		ImportNodeTypes: []string{"import_statement", "export_statement"},
		CallNodeTypes:   []string{"call_expression"},
	})
}
