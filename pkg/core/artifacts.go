package core

// Attachment represents a debug artifact captured during test execution.
type Attachment struct {
	Name        string `json:"name"`        // Descriptive name: screenshot, hierarchy
	ContentType string `json:"contentType"` // MIME type: image/png, text/xml
	Path        string `json:"path"`        // File path relative to the run directory
	Body        []byte `json:"-"`           // In-memory content (not serialized to JSON)
}

// Common attachment names
const (
	AttachmentScreenshot = "screenshot"
	AttachmentHierarchy  = "hierarchy"
)

// Common content types
const (
	ContentTypePNG  = "image/png"
	ContentTypeXML  = "text/xml"
	ContentTypeText = "text/plain"
)

// NewScreenshotAttachment creates a screenshot attachment.
func NewScreenshotAttachment(path string, data []byte) Attachment {
	return Attachment{
		Name:        AttachmentScreenshot,
		ContentType: ContentTypePNG,
		Path:        path,
		Body:        data,
	}
}

// NewHierarchyAttachment creates a UI hierarchy attachment.
func NewHierarchyAttachment(path string, data []byte) Attachment {
	return Attachment{
		Name:        AttachmentHierarchy,
		ContentType: ContentTypeXML,
		Path:        path,
		Body:        data,
	}
}

// ArtifactConfig controls when debug artifacts are captured.
type ArtifactConfig struct {
	CaptureOnFailure bool `yaml:"captureOnFailure" json:"captureOnFailure"` // Default: true
	CaptureOnSuccess bool `yaml:"captureOnSuccess" json:"captureOnSuccess"` // Default: false
	Screenshot       bool `yaml:"screenshot" json:"screenshot"`             // Default: true
	UIHierarchy      bool `yaml:"uiHierarchy" json:"uiHierarchy"`           // Default: false (verbose)
}

// DefaultArtifactConfig returns sensible defaults for artifact capture.
func DefaultArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		CaptureOnFailure: true,
		CaptureOnSuccess: false,
		Screenshot:       true,
		UIHierarchy:      false,
	}
}

// ShouldCapture returns true if artifacts should be captured for a test
// that ended with the given success state.
func (c ArtifactConfig) ShouldCapture(passed bool) bool {
	if passed {
		return c.CaptureOnSuccess
	}
	return c.CaptureOnFailure
}
