package audits

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func details(t *testing.T, body string) Details {
	t.Helper()
	var d Details
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	return d
}

func TestDetectedSummary(t *testing.T) {
	tests := []struct {
		code    string
		details string
		want    []string
	}{
		{"1.1.1", `{"images_total": 10, "with_alt": 6, "decorative": 2}`,
			[]string{"Imágenes con alt/decorativas: 8/10 (80%)."}},
		{"1.1.1", `{}`, []string{"No se detectaron imágenes."}},
		{"1.2.2", `{"videos": 2}`, []string{"Videos detectados: 2. Sin subtítulos: 0."}},
		{"1.2.2", `{"videos": "2"}`, nil},
		{"1.3.1", `{"tables": 3, "tables_without_th": 1, "heading_hierarchy_ok": false, "landmarks": {"main": true, "nav": false, "footer": false}}`,
			[]string{
				"Tablas: 3. Tablas sin <th>: 1.",
				"Jerarquía de encabezados: posible problema.",
				"Landmarks detectados: 3. Faltantes: footer, nav.",
			}},
		{"1.3.1", `{"landmarks": {"main": true}}`, []string{"Landmarks detectados: 1. Faltantes: ninguno."}},
		{"1.3.5", `{"inputs_total": 4, "inputs_with_autocomplete": 1}`,
			[]string{"Campos con autocomplete: 1/4 (25%)."}},
		{"1.4.3", `{"tested_desktop": 200, "fails_desktop": 3, "tested_mobile": 0}`,
			[]string{"Desktop: fallos de contraste 3/200 (2%).", "Mobile: fallos de contraste 0/0 (—)."}},
		{"1.4.6", `{"tested_mobile": 8}`, []string{"Mobile: fallos de contraste 0/8 (0%)."}},
		{"1.4.10", `{"has_horizontal_overflow_at_320px": true}`, []string{"Overflow horizontal a 320px: sí."}},
		{"1.4.11", `{"tested": 3, "fails": 1}`,
			[]string{"Componentes no textuales con contraste insuficiente: 1/3 (33%)."}},
		{"2.1.1", `{}`, []string{"Elementos con handlers de click en elementos no interactivos: 0."}},
		{"2.1.1", `{"onclick_noninteractive": 5, "tabindex_gt0": 2}`,
			[]string{"Elementos con handlers de click en elementos no interactivos: 5.", "Elementos con tabindex > 0: 2."}},
		{"2.4.1", `{"has_main": true}`, []string{"Landmark <main>: sí; Enlace 'saltar al contenido': no."}},
		{"2.4.4", `{"links_total": 8, "meaningful_text_only": 6, "anchors_without_href": 1}`,
			[]string{"Enlaces con propósito claro: 6/8 (75%).", "Anclas sin href: 1."}},
		{"2.4.7", `{"tested": 4, "visible": 4}`, []string{"Elementos con foco visible: 4/4 (100%)."}},
		{"2.5.5", `{"tested": 10, "too_small": 5}`, []string{"Objetivos interactivos <44px: 5/10 (50%)."}},
		{"3.1.1", `{"lang_present": true, "lang": "es"}`, []string{"Atributo lang en <html>: sí (es)."}},
		{"3.1.1", `{"lang_present": true}`, []string{"Atributo lang en <html>: sí (desconocido)."}},
		{"3.1.1", `{}`, []string{"Atributo lang en <html>: no."}},
		{"3.1.2", `{"parts_with_lang": 0}`, []string{"Partes con lang específico: 0."}},
		{"3.3.2", `{"inputs_total": 3, "inputs_labeled": 2}`, []string{"Campos etiquetados: 2/3 (67%)."}},
		{"4.1.1", `{"duplicate_ids": []}`, []string{"IDs duplicados: 0."}},
		{"4.1.1", `{"duplicate_ids": ["a","b","c","d","e","f"]}`,
			[]string{"IDs duplicados: 6 (a, b, c, d, e, …)."}},
		{"4.1.2", `{"missing_accessible_name": [{}, {}], "aria_broken_refs": 1}`,
			[]string{"Elementos sin nombre accesible: 2.", "Referencias ARIA rotas: 1."}},
		{"4.1.3", `{"misannotated": [{}], "observed_misannotated": [{}, {}]}`,
			[]string{"Mensajes de estado mal anotados/observados: 3."}},
		{"2.2.1", `{"z_flag": false, "count": 2, "a_flag": true, "label": "x"}`,
			[]string{"a_flag: sí.", "z_flag: no.", "count: 2."}},
		{"2.2.1", `{"note": "Revisión manual", "na": true}`,
			[]string{"na: sí.", "Nota: Revisión manual", "Marcado como N/A (no aplicable o no verificable automáticamente)."}},
	}
	for _, tt := range tests {
		t.Run(tt.code+"_"+tt.details, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectedSummary(tt.code, details(t, tt.details)))
		})
	}
}

func TestDetectedSummaryNilDetails(t *testing.T) {
	assert.Equal(t, []string{"No se detectaron imágenes."}, DetectedSummary("1.1.1", nil))
	assert.Empty(t, DetectedSummary("2.2.1", nil))
}
