package lang

// Language represents a supported source language.
type Language string

const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	CSS        Language = "css"
	HTML       Language = "html"
	Vue        Language = "vue" // composite; split into segments before parsing
)

// AllLanguages returns all supported languages.
func AllLanguages() []Language {
	return []Language{JavaScript, TypeScript, TSX, CSS, HTML, Vue}
}

// LanguageSpec defines per-language behavior for loading and linting.
type LanguageSpec struct {
	Language       Language
	FileExtensions []string

	// Composite marks file types that must be split into script/template/
	// style segments before parsing.
	Composite bool

	// HasModules marks languages whose sources can declare import/export
	// specifiers that participate in the dependency graph.
	HasModules bool

	// ImportNodeTypes lists AST node kinds that carry a module specifier in
	// a "source" field.
	ImportNodeTypes []string
	// CallNodeTypes lists call-expression node kinds (for require()).
	CallNodeTypes []string
}

// registry maps file extensions to language specs.
var registry = map[string]*LanguageSpec{}

// Register adds a LanguageSpec to the global registry.
func Register(spec *LanguageSpec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".ts").
func ForExtension(ext string) *LanguageSpec {
	return registry[ext]
}

// ForLanguage returns the LanguageSpec for a language.
func ForLanguage(l Language) *LanguageSpec {
	for _, spec := range registry {
		if spec.Language == l {
			return spec
		}
	}
	return nil
}

// LanguageForExtension returns the Language for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}
