// Package prompt builds the instruction text sent to a language model.
//
// Assembly is pure: the same user text, platform and app table always
// produce byte-identical output. The rule text is a constant with a single
// input marker; the app reference section is derived from the table in
// sorted order and capped so the prompt stays bounded.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nadzzz/devicely/internal/apps"
)

// ErrPromptConstruction is returned when a prompt cannot be built.
var ErrPromptConstruction = errors.New("prompt construction failed")

// Platform selects which package identifiers the reference section lists.
type Platform string

const (
	// Unspecified omits the app reference section.
	Unspecified Platform = ""
	IOS         Platform = "ios"
	Android     Platform = "android"
	// Both targets iOS and Android devices at once with generic names.
	Both Platform = "both"
)

// Caps on the app reference section.
const (
	MaxBothApps        = 30
	MaxBothMappings    = 15
	MaxPlatformApps    = 50
	MaxPlatformMapping = 20

	// MaxReferenceBytes bounds the rendered reference section.
	MaxReferenceBytes = 8 << 10
)

// InputMarker is replaced by the user text, exactly once.
const InputMarker = "{INPUT}"

// escapedMarker stands in for a literal marker inside user text.
const escapedMarker = "{ INPUT }"

// ParsePlatform validates a platform string. Matching ignores case and
// surrounding whitespace.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case Unspecified, IOS, Android, Both:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown platform %q", ErrPromptConstruction, s)
	}
}

// Assemble renders the full prompt for userText.
func Assemble(userText string, platform Platform, table apps.Table) (string, error) {
	ref, err := referenceSection(platform, table)
	if err != nil {
		return "", err
	}

	before, after, ok := strings.Cut(template, InputMarker)
	if !ok {
		return "", fmt.Errorf("%w: template has no input marker", ErrPromptConstruction)
	}

	before = strings.Replace(before, referencePlaceholder, ref, 1)
	payload := strings.ReplaceAll(userText, InputMarker, escapedMarker)

	var sb strings.Builder
	sb.Grow(len(before) + len(payload) + len(after))
	sb.WriteString(before)
	sb.WriteString(payload)
	sb.WriteString(after)
	return sb.String(), nil
}

func referenceSection(platform Platform, table apps.Table) (string, error) {
	var section string
	switch platform {
	case Unspecified:
		return "", nil
	case Both:
		section = bothSection(table)
	case IOS, Android:
		section = platformSection(platform, table)
	default:
		return "", fmt.Errorf("%w: unknown platform %q", ErrPromptConstruction, platform)
	}

	if len(section) > MaxReferenceBytes {
		return "", fmt.Errorf("%w: app reference section is %d bytes, limit %d",
			ErrPromptConstruction, len(section), MaxReferenceBytes)
	}
	return section, nil
}

func bothSection(table apps.Table) string {
	var common []apps.Named
	if table != nil {
		for _, a := range table.All() {
			if a.IOS != "" && a.Android != "" {
				common = append(common, a)
			}
			if len(common) == MaxBothApps {
				break
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("\n\nMULTI-PLATFORM MODE (iOS + Android devices)\n")
	sb.WriteString("Available apps: ")
	sb.WriteString(joinNames(common))
	sb.WriteString("\n\nIMPORTANT: Use generic app names (e.g., \"launch settings\", \"launch chrome\")\n")
	sb.WriteString("The system will automatically convert to platform-specific package IDs:\n")
	for i, a := range common {
		if i == MaxBothMappings {
			break
		}
		fmt.Fprintf(&sb, "- %s -> iOS: %s / Android: %s\n", a.Name, a.IOS, a.Android)
	}
	sb.WriteString("\nCommands will execute SIMULTANEOUSLY on all devices with correct package IDs.\n")
	return sb.String()
}

func platformSection(platform Platform, table apps.Table) string {
	var available []apps.Named
	if table != nil {
		for _, a := range table.All() {
			if packageFor(a.Entry, platform) != "" {
				available = append(available, a)
			}
			if len(available) == MaxPlatformApps {
				break
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n\nPLATFORM: %s\n", strings.ToUpper(string(platform)))
	fmt.Fprintf(&sb, "Available apps for %s: %s\n", platform, joinNames(available))
	sb.WriteString("\nAPP PACKAGE MAPPINGS:\n")
	sb.WriteString("When user says \"launch chrome\", \"open chrome\", etc., use the correct package ID:\n")
	for i, a := range available {
		if i == MaxPlatformMapping {
			break
		}
		fmt.Fprintf(&sb, "- %s -> launch %s\n", a.Name, packageFor(a.Entry, platform))
	}
	return sb.String()
}

func packageFor(e apps.Entry, platform Platform) string {
	switch platform {
	case IOS:
		return e.IOS
	case Android:
		return e.Android
	}
	return ""
}

func joinNames(list []apps.Named) string {
	names := make([]string, len(list))
	for i, a := range list {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}
