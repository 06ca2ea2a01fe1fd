package lang

import "testing"

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		lang Language
	}{
		{".js", JavaScript},
		{".jsx", JavaScript},
		{".mjs", JavaScript},
		{".ts", TypeScript},
		{".tsx", TSX},
		{".css", CSS},
		{".html", HTML},
		{".vue", Vue},
	}
	for _, tt := range tests {
		spec := ForExtension(tt.ext)
		if spec == nil {
			t.Errorf("ForExtension(%q) = nil, want %s", tt.ext, tt.lang)
			continue
		}
		if spec.Language != tt.lang {
			t.Errorf("ForExtension(%q).Language = %s, want %s", tt.ext, spec.Language, tt.lang)
		}
	}
}

func TestForLanguage(t *testing.T) {
	for _, l := range AllLanguages() {
		spec := ForLanguage(l)
		if spec == nil {
			t.Errorf("ForLanguage(%s) = nil", l)
		}
	}
}

func TestUnknownExtension(t *testing.T) {
	if spec := ForExtension(".xyz"); spec != nil {
		t.Errorf("ForExtension(.xyz) should be nil, got %v", spec)
	}
}

func TestVueIsComposite(t *testing.T) {
	spec := ForLanguage(Vue)
	if spec == nil {
		t.Fatal("Vue spec not registered")
	}
	if !spec.Composite {
		t.Error("Vue spec should be composite")
	}
	if !spec.HasModules {
		t.Error("Vue spec should have modules")
	}
}

func TestModuleLanguages(t *testing.T) {
	for _, l := range []Language{JavaScript, TypeScript, TSX} {
		spec := ForLanguage(l)
		if spec == nil {
			t.Fatalf("%s spec not registered", l)
		}
		if !spec.HasModules {
			t.Errorf("%s spec should have modules", l)
		}
		if len(spec.ImportNodeTypes) == 0 {
			t.Errorf("%s spec missing import node types", l)
		}
	}
}
