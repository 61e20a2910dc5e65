package generation

import (
	"fmt"
	"strings"

	"github.com/phrazzld/veogen-api/internal/domain"
)

// orientationHints maps each aspect ratio to a short framing description
// embedded in the enhanced prompt.
var orientationHints = map[domain.AspectRatio]string{
	domain.AspectLandscape:  "landscape orientation, horizontal format, wide-screen",
	domain.AspectPortrait:   "portrait orientation, vertical format, mobile-friendly",
	domain.AspectSquare:     "square format, social media optimized",
	domain.AspectWidescreen: "cinematic widescreen, ultra-wide format",
	domain.AspectClassic:    "classic format, traditional aspect ratio",
	domain.AspectUltrawide:  "ultra-wide panoramic format",
}

// optimizationNotes maps aspect ratios that benefit from extra guidance to a
// format-specific optimization paragraph. Unmapped ratios get none.
var optimizationNotes = map[domain.AspectRatio]string{
	domain.AspectPortrait: "Optimization Notes: Optimize for vertical mobile viewing, " +
		"ensure key elements are centered vertically, use larger text and clear " +
		"visuals suitable for smartphone screens.",
	domain.AspectSquare: "Optimization Notes: Optimize for square social media format, " +
		"ensure content fits well within square boundaries, center important elements.",
	domain.AspectWidescreen: "Optimization Notes: Create cinematic widescreen content, " +
		"utilize the wide format for panoramic shots or dramatic compositions.",
}

const genericOrientationHint = "standard format"

// EnhancePrompt expands the raw user prompt and its structured parameters
// into a single descriptive prompt string for the video backend. It is a
// pure, deterministic function: the same request always yields the same
// string, and it has no failure modes over a normalized request.
func EnhancePrompt(req domain.GenerationRequest) string {
	hint, ok := orientationHints[req.AspectRatio]
	if !ok {
		hint = genericOrientationHint
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-second video with the following specifications:\n\n", req.Duration)
	fmt.Fprintf(&b, "Content: %s\n\n", req.Prompt)
	b.WriteString("Technical Requirements:\n")
	fmt.Fprintf(&b, "- Resolution: %s\n", req.Resolution)
	fmt.Fprintf(&b, "- Quality: %s\n", req.Quality)
	fmt.Fprintf(&b, "- Aspect Ratio: %s (%s)\n", req.AspectRatio, hint)
	fmt.Fprintf(&b, "- Duration: %d seconds\n", req.Duration)
	fmt.Fprintf(&b, "- Frame Rate: %d fps\n", req.FPS)
	fmt.Fprintf(&b, "- Format: %s", req.Format)

	if req.Style != "" {
		fmt.Fprintf(&b, "\n- Style: %s", req.Style)
	}

	if note, ok := optimizationNotes[req.AspectRatio]; ok {
		b.WriteString("\n\n")
		b.WriteString(note)
	}

	b.WriteString("\n\nGenerate a high-quality, professional video that matches the prompt " +
		"description with smooth motion, proper lighting, and composition optimized " +
		"for the specified aspect ratio.")

	return b.String()
}
