package lang

func init() {
	Register(&LanguageSpec{
		Language:       HTML,
		FileExtensions: []string{".html", ".htm"},
	})
}
