package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/fisichecker/internal/domain/ai"
)

// GetSystemPrompt sets the tone and shape of the executive summary.
func GetSystemPrompt() string {
	return `Eres un consultor senior de accesibilidad web (WCAG 2.1). Redactas resúmenes ejecutivos en español para responsables de producto, no para desarrolladores.

Requisitos:
- Responde solo en Markdown, sin bloques de código.
- Empieza con un párrafo de dos o tres frases sobre el estado general del sitio.
- Luego una sección "## Prioridades" con una lista numerada de como máximo cinco acciones, ordenadas por impacto. Cita el código WCAG entre paréntesis.
- Termina con una sección "## Siguiente paso" de una sola frase.
- Usa solo los datos proporcionados; no inventes hallazgos.`
}

// GetUserPrompt renders the audit as a compact list.
func GetUserPrompt(req ai.SummaryRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", req.URL)
	if req.PageTitle != "" {
		fmt.Fprintf(&b, "Título: %s\n", req.PageTitle)
	}
	fmt.Fprintf(&b, "Score: %s\n", req.Score)
	fmt.Fprintf(&b, "Veredictos: cumple %d, no cumple %d, parcial %d, n/a %d\n", req.Passed, req.Failed, req.Partial, req.NA)
	if len(req.Findings) == 0 {
		b.WriteString("\nNo hay criterios fallidos ni parciales.\n")
		return b.String()
	}
	b.WriteString("\nCriterios con problemas:\n")
	for _, f := range req.Findings {
		fmt.Fprintf(&b, "- %s %s (nivel %s): %s\n", f.Code, f.Title, f.Level, f.Verdict)
		for _, d := range f.Detected {
			fmt.Fprintf(&b, "  - Detectado: %s\n", d)
		}
		for _, r := range f.Recommended {
			fmt.Fprintf(&b, "  - Recomendación: %s\n", r)
		}
	}
	return b.String()
}
