package artifact

import (
	"fmt"
	"path"
	"strings"

	"github.com/anchore/packageurl-go"

	"github.com/semgate/semgate/internal"
)

// DefaultPackaging is assumed whenever a coordinate does not name a packaging.
const DefaultPackaging = "jar"

const purlPrefix = "pkg:"

// Coordinate identifies the artifact under gate: group, name, declared version, and
// optionally a classifier and packaging.
type Coordinate struct {
	Group      string `json:"group"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	Classifier string `json:"classifier,omitempty"`
	Packaging  string `json:"packaging"`
}

// ParseCoordinate accepts either colon-delimited coordinates
// ("group:name:version[:classifier[:packaging]]") or a Maven package URL
// ("pkg:maven/group/name@version?classifier=...&type=...").
func ParseCoordinate(userInput string) (Coordinate, error) {
	if internal.HasAnyOfPrefixes(userInput, purlPrefix) {
		return parsePurl(userInput)
	}

	return parseColonForm(userInput)
}

func parseColonForm(userInput string) (Coordinate, error) {
	parts := strings.Split(userInput, ":")
	if len(parts) < 3 || len(parts) > 5 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: expected group:name:version[:classifier[:packaging]]", userInput)
	}

	for _, part := range parts[:3] {
		if part == "" {
			return Coordinate{}, fmt.Errorf("invalid coordinate %q: group, name, and version must not be empty", userInput)
		}
	}

	coordinate := Coordinate{
		Group:     parts[0],
		Name:      parts[1],
		Version:   parts[2],
		Packaging: DefaultPackaging,
	}

	if len(parts) > 3 {
		coordinate.Classifier = parts[3]
	}
	if len(parts) > 4 && parts[4] != "" {
		coordinate.Packaging = parts[4]
	}

	return coordinate, nil
}

func parsePurl(userInput string) (Coordinate, error) {
	purl, err := packageurl.FromString(userInput)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid package URL %q: %w", userInput, err)
	}

	if purl.Type != packageurl.TypeMaven {
		return Coordinate{}, fmt.Errorf("unsupported package URL type %q (only %q is supported)", purl.Type, packageurl.TypeMaven)
	}

	if purl.Namespace == "" || purl.Name == "" || purl.Version == "" {
		return Coordinate{}, fmt.Errorf("package URL %q must have a group, name, and version", userInput)
	}

	coordinate := Coordinate{
		Group:     purl.Namespace,
		Name:      purl.Name,
		Version:   purl.Version,
		Packaging: DefaultPackaging,
	}

	qualifiers := purl.Qualifiers.Map()
	if classifier, exists := qualifiers["classifier"]; exists {
		coordinate.Classifier = classifier
	}
	if packaging, exists := qualifiers["type"]; exists && packaging != "" {
		coordinate.Packaging = packaging
	}

	return coordinate, nil
}

// WithVersion returns a copy of the coordinate pointing at another version of the same artifact.
func (c Coordinate) WithVersion(version string) Coordinate {
	c.Version = version
	return c
}

func (c Coordinate) String() string {
	parts := []string{c.Group, c.Name, c.Version}
	if c.Classifier != "" {
		parts = append(parts, c.Classifier)
	}
	if c.Packaging != "" && c.Packaging != DefaultPackaging {
		if c.Classifier == "" {
			parts = append(parts, "")
		}
		parts = append(parts, c.Packaging)
	}

	return strings.Join(parts, ":")
}

// PURL returns the package URL form of the coordinate.
func (c Coordinate) PURL() string {
	var qualifiers packageurl.Qualifiers
	if c.Classifier != "" {
		qualifiers = append(qualifiers, packageurl.Qualifier{Key: "classifier", Value: c.Classifier})
	}
	if c.Packaging != "" && c.Packaging != DefaultPackaging {
		qualifiers = append(qualifiers, packageurl.Qualifier{Key: "type", Value: c.Packaging})
	}

	return packageurl.NewPackageURL(
		packageurl.TypeMaven,
		c.Group,
		c.Name,
		c.Version,
		qualifiers,
		"",
	).ToString()
}

// FileName returns the conventional artifact file name: name-version[-classifier].packaging
func (c Coordinate) FileName() string {
	packaging := c.Packaging
	if packaging == "" {
		packaging = DefaultPackaging
	}

	if c.Classifier != "" {
		return fmt.Sprintf("%s-%s-%s.%s", c.Name, c.Version, c.Classifier, packaging)
	}

	return fmt.Sprintf("%s-%s.%s", c.Name, c.Version, packaging)
}

// RepositoryPath returns the relative path of the artifact file within a Maven-layout repository.
func (c Coordinate) RepositoryPath() string {
	return path.Join(c.groupPath(), c.Name, c.Version, c.FileName())
}

// MetadataPath returns the relative path of the version listing within a Maven-layout repository.
func (c Coordinate) MetadataPath() string {
	return path.Join(c.groupPath(), c.Name, "maven-metadata.xml")
}

func (c Coordinate) groupPath() string {
	return strings.ReplaceAll(c.Group, ".", "/")
}
