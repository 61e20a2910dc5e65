// Package veo adapts Google's Veo video models, exposed through the genai
// SDK, to the generation.Generator interface. It owns the long-running
// operation protocol: submit, poll on a bounded budget, then extract or
// download the finished video.
package veo
