package lang

func init() {
	Register(&LanguageSpec{
		Language:       Vue,
		FileExtensions: []string{".vue"},
		Composite:      true,
		HasModules:     true,
	})
}
