package folio

// BlogPost is the core content type, imported from Markdown into SQLite and
// rendered by templates.
type BlogPost struct {
	Title     string
	Date      string
	Tags      []string
	Summary   string
	Link      string
	Slug      string
	Content   string
	Published bool
}

// ContentPage is the prose of a fixed page such as About or Consultancy.
type ContentPage struct {
	Slug    string
	Title   string
	Heading string
	Body    string // Markdown
}

// NavigationLink is one entry of a navigation or footer list. Path is either
// a site path or an absolute external URL. Site paths are mounted under
// BasePath unless NoBasePath is set.
type NavigationLink struct {
	Label      string `yaml:"label"`
	Path       string `yaml:"path"`
	NoBasePath bool   `yaml:"no_base_path"`
}

// External reports whether the link leaves the site.
func (l NavigationLink) External() bool {
	return isExternalURL(l.Path) || isMailto(l.Path)
}

// CertificateEntry is a single accreditation shown on the Certificates page.
type CertificateEntry struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// TagCount is a tag and the number of published posts carrying it.
type TagCount struct {
	Name  string
	Count int
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// PageData is everything a view needs to render a full page.
type PageData struct {
	Site *SiteConfig
	Meta PageMeta
	Year int    // calendar year at render time, for the footer
	Path string // request path, for marking the active link
}

// ManifestIcon is one icon entry of the web manifest.
type ManifestIcon struct {
	Src   string `yaml:"src" json:"src"`
	Sizes string `yaml:"sizes" json:"sizes"`
	Type  string `yaml:"type" json:"type"`
}

// ReportEntry is one row of the page-weight report.
type ReportEntry struct {
	Path      string
	Status    int
	Bytes     int
	GzipBytes int
}
