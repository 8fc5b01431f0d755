package tables

// FontCatalog is the per-platform system/web font catalog used by font
// subset sampling (spec §4.5), grounded on the teacher's commonFonts
// literal (core/internal/stealth/fingerprint.go).
type FontCatalog struct {
	SystemFonts []string
	WebFonts    []string
}

var defaultWebFonts = []string{
	"Roboto",
	"Open Sans",
	"Lato",
	"Montserrat",
	"Source Sans Pro",
}

// FontCatalogs maps a platform name to its font catalog.
var FontCatalogs = map[string]FontCatalog{
	"windows": {
		SystemFonts: []string{"Arial", "Calibri", "Cambria", "Consolas", "Georgia", "Segoe UI", "Tahoma", "Times New Roman", "Verdana"},
		WebFonts:    defaultWebFonts,
	},
	"macos": {
		SystemFonts: []string{"Helvetica Neue", "San Francisco", "Avenir", "Menlo", "Georgia", "Times", "Courier New"},
		WebFonts:    defaultWebFonts,
	},
	"linux": {
		SystemFonts: []string{"DejaVu Sans", "Liberation Sans", "Ubuntu", "Noto Sans", "Droid Sans"},
		WebFonts:    defaultWebFonts,
	},
	"android": {
		SystemFonts: []string{"Roboto", "Noto Sans", "Droid Sans"},
		WebFonts:    defaultWebFonts,
	},
	"ios": {
		SystemFonts: []string{"San Francisco", "Helvetica Neue", "Avenir"},
		WebFonts:    defaultWebFonts,
	},
}

// FontCatalogFor returns the catalog for a platform, defaulting to the
// windows catalog if the platform is unrecognized.
func FontCatalogFor(platform string) FontCatalog {
	if c, ok := FontCatalogs[platform]; ok {
		return c
	}
	return FontCatalogs["windows"]
}
