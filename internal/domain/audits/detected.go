package audits

import (
	"fmt"
	"sort"
	"strings"
)

type detectFormatter func(d Details) []string

// detectors formats the evidence of the criteria the backend reports in
// detail. Codes without an entry use detectGeneric.
var detectors = map[string]detectFormatter{
	"1.1.1":  detectImages,
	"1.2.2":  detectVideos,
	"1.3.1":  detectStructure,
	"1.3.5":  detectAutocomplete,
	"1.4.3":  detectContrast,
	"1.4.6":  detectContrast,
	"1.4.10": detectReflow,
	"1.4.11": detectNonTextContrast,
	"2.1.1":  detectKeyboard,
	"2.4.1":  detectBypassBlocks,
	"2.4.4":  detectLinkPurpose,
	"2.4.7":  detectFocusVisible,
	"2.5.5":  detectTargetSize,
	"3.1.1":  detectPageLanguage,
	"3.1.2":  detectPartsLanguage,
	"3.3.2":  detectLabels,
	"4.1.1":  detectDuplicateIDs,
	"4.1.2":  detectNameRoleValue,
	"4.1.3":  detectStatusMessages,
}

// DetectedSummary turns the details of criterion code into short
// "qué se detectó" sentences.
func DetectedSummary(code string, d Details) []string {
	if d == nil {
		d = Details{}
	}
	f, ok := detectors[code]
	if !ok {
		f = detectGeneric
	}
	lines := f(d)
	if truthy(d["note"]) {
		lines = append(lines, "Nota: "+display(d["note"]))
	}
	if v, ok := d["na"].(bool); ok && v {
		lines = append(lines, "Marcado como N/A (no aplicable o no verificable automáticamente).")
	}
	return lines
}

func ratioLine(label string, ok, total any) string {
	return fmt.Sprintf("%s %s/%s (%s).", label, coalesce(ok), display(total), Percent(toNumber(ok), toNumber(total)))
}

func detectImages(d Details) []string {
	total := toNumber(coalesceValue(d["images_total"], 0.0))
	good := toNumber(coalesceValue(d["with_alt"], 0.0)) + toNumber(coalesceValue(d["decorative"], 0.0))
	if total > 0 {
		return []string{fmt.Sprintf("Imágenes con alt/decorativas: %s/%s (%s).", formatNumber(good), formatNumber(total), Percent(good, total))}
	}
	return []string{"No se detectaron imágenes."}
}

func detectVideos(d Details) []string {
	if !isNumber(d["videos"]) {
		return nil
	}
	return []string{fmt.Sprintf("Videos detectados: %s. Sin subtítulos: %s.", display(d["videos"]), orZero(d["videos_without_captions"]))}
}

func detectStructure(d Details) []string {
	var lines []string
	if isNumber(d["tables"]) {
		lines = append(lines, fmt.Sprintf("Tablas: %s. Tablas sin <th>: %s.", display(d["tables"]), orZero(d["tables_without_th"])))
	}
	if ok, isB := d["heading_hierarchy_ok"].(bool); isB {
		state := "posible problema"
		if ok {
			state = "correcta"
		}
		lines = append(lines, fmt.Sprintf("Jerarquía de encabezados: %s.", state))
	}
	if lm, ok := d["landmarks"].(map[string]any); ok {
		keys := sortedKeys(lm)
		var missing []string
		for _, k := range keys {
			if v, isB := lm[k].(bool); isB && !v {
				missing = append(missing, k)
			}
		}
		miss := "ninguno"
		if len(missing) > 0 {
			miss = strings.Join(missing, ", ")
		}
		lines = append(lines, fmt.Sprintf("Landmarks detectados: %d. Faltantes: %s.", len(keys), miss))
	}
	return lines
}

func detectAutocomplete(d Details) []string {
	if !isNumber(d["inputs_total"]) {
		return nil
	}
	return []string{ratioLine("Campos con autocomplete:", d["inputs_with_autocomplete"], d["inputs_total"])}
}

func detectContrast(d Details) []string {
	var lines []string
	if isNumber(d["tested_desktop"]) {
		lines = append(lines, ratioLine("Desktop: fallos de contraste", d["fails_desktop"], d["tested_desktop"]))
	}
	if isNumber(d["tested_mobile"]) {
		lines = append(lines, ratioLine("Mobile: fallos de contraste", d["fails_mobile"], d["tested_mobile"]))
	}
	return lines
}

func detectReflow(d Details) []string {
	v, ok := d["has_horizontal_overflow_at_320px"].(bool)
	if !ok {
		return nil
	}
	return []string{fmt.Sprintf("Overflow horizontal a 320px: %s.", siNo(v))}
}

func detectNonTextContrast(d Details) []string {
	if !isNumber(d["tested"]) {
		return nil
	}
	return []string{ratioLine("Componentes no textuales con contraste insuficiente:", d["fails"], d["tested"])}
}

func detectKeyboard(d Details) []string {
	lines := []string{fmt.Sprintf("Elementos con handlers de click en elementos no interactivos: %s.", orZero(d["onclick_noninteractive"]))}
	if isNumber(d["tabindex_gt0"]) {
		lines = append(lines, fmt.Sprintf("Elementos con tabindex > 0: %s.", display(d["tabindex_gt0"])))
	}
	return lines
}

func detectBypassBlocks(d Details) []string {
	return []string{fmt.Sprintf("Landmark <main>: %s; Enlace 'saltar al contenido': %s.", siNo(truthy(d["has_main"])), siNo(truthy(d["has_skip_link"])))}
}

func detectLinkPurpose(d Details) []string {
	var lines []string
	if isNumber(d["links_total"]) {
		ok := coalesceValue(d["meaningful"], d["meaningful_text_only"])
		lines = append(lines, ratioLine("Enlaces con propósito claro:", ok, d["links_total"]))
	}
	if isNumber(d["anchors_without_href"]) {
		lines = append(lines, fmt.Sprintf("Anclas sin href: %s.", display(d["anchors_without_href"])))
	}
	return lines
}

func detectFocusVisible(d Details) []string {
	if !isNumber(d["tested"]) {
		return nil
	}
	return []string{ratioLine("Elementos con foco visible:", d["visible"], d["tested"])}
}

func detectTargetSize(d Details) []string {
	if !isNumber(d["tested"]) {
		return nil
	}
	return []string{ratioLine("Objetivos interactivos <44px:", d["too_small"], d["tested"])}
}

func detectPageLanguage(d Details) []string {
	state := "no"
	if truthy(d["lang_present"]) {
		lang := "desconocido"
		if truthy(d["lang"]) {
			lang = display(d["lang"])
		}
		state = fmt.Sprintf("sí (%s)", lang)
	}
	return []string{fmt.Sprintf("Atributo lang en <html>: %s.", state)}
}

func detectPartsLanguage(d Details) []string {
	if !isNumber(d["parts_with_lang"]) {
		return nil
	}
	return []string{fmt.Sprintf("Partes con lang específico: %s.", display(d["parts_with_lang"]))}
}

func detectLabels(d Details) []string {
	if !isNumber(d["inputs_total"]) {
		return nil
	}
	return []string{ratioLine("Campos etiquetados:", d["inputs_labeled"], d["inputs_total"])}
}

func detectDuplicateIDs(d Details) []string {
	ids, ok := d["duplicate_ids"].([]any)
	if !ok {
		return nil
	}
	var sample string
	if len(ids) > 0 {
		n := len(ids)
		if n > 5 {
			n = 5
		}
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = display(ids[i])
		}
		more := ""
		if len(ids) > 5 {
			more = ", …"
		}
		sample = fmt.Sprintf(" (%s%s)", strings.Join(parts, ", "), more)
	}
	return []string{fmt.Sprintf("IDs duplicados: %d%s.", len(ids), sample)}
}

func detectNameRoleValue(d Details) []string {
	lines := []string{fmt.Sprintf("Elementos sin nombre accesible: %d.", length(d["missing_accessible_name"]))}
	if isNumber(d["aria_broken_refs"]) {
		lines = append(lines, fmt.Sprintf("Referencias ARIA rotas: %s.", display(d["aria_broken_refs"])))
	}
	return lines
}

func detectStatusMessages(d Details) []string {
	n := length(d["misannotated"]) + length(d["now_misannotated"]) + length(d["observed_misannotated"])
	return []string{fmt.Sprintf("Mensajes de estado mal anotados/observados: %d.", n)}
}

// detectGeneric lists boolean fields first, then numeric ones, each group in
// key order.
func detectGeneric(d Details) []string {
	keys := sortedKeys(d)
	var lines []string
	for _, k := range keys {
		if b, ok := d[k].(bool); ok {
			lines = append(lines, fmt.Sprintf("%s: %s.", k, siNo(b)))
		}
	}
	for _, k := range keys {
		if isNumber(d[k]) {
			lines = append(lines, fmt.Sprintf("%s: %s.", k, display(d[k])))
		}
	}
	return lines
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
