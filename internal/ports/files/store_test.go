package files

import (
	"testing"
	"time"
)

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	cases := map[string]string{
		"buddy.png":             "pet-images/1700000000123_buddy.png",
		"../../etc/passwd":      "pet-images/1700000000123_passwd",
		`C:\fotos\mi perro.jpg`: "pet-images/1700000000123_mi_perro.jpg",
		"":                      "pet-images/1700000000123_file",
	}
	for in, want := range cases {
		if got := ObjectKey(FolderPetImages, at, in); got != want {
			t.Fatalf("ObjectKey(%q) = %q, want %q", in, got, want)
		}
	}
}
