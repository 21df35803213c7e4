package audits

type recommendFormatter func(d Details) []string

func fixed(text string) recommendFormatter {
	return func(Details) []string { return []string{text} }
}

const genericRecommendation = "Revisa el detalle y corrige los hallazgos reportados para cumplir el criterio."

var recommenders = map[string]recommendFormatter{
	"1.1.1":  fixed("Agrega atributos alt descriptivos a imágenes significativas; marca como decorativas las puramente visuales."),
	"1.3.1":  recommendStructure,
	"1.3.5":  fixed("Añade atributos autocomplete adecuados (p. ej., name, email, address-line1) a los inputs."),
	"1.4.3":  fixed("Ajusta colores para cumplir contraste mínimo (4.5:1 texto normal / 3:1 texto grande)."),
	"1.4.6":  fixed("Ajusta colores para cumplir contraste mínimo (4.5:1 texto normal / 3:1 texto grande)."),
	"1.4.10": fixed("Evita overflow horizontal en móviles; usa diseños responsivos (flex/grid) y unidades relativas."),
	"1.4.11": fixed("Aumenta contraste de bordes, iconos y estados de controles hasta 3:1 contra el fondo."),
	"2.1.1":  fixed("Evita handlers de click en elementos no interactivos; usa <button> o añade role y manejo por teclado."),
	"2.4.1":  fixed("Añade un enlace 'Saltar al contenido' visible al enfocar y usa landmark <main> para contenido principal."),
	"2.4.4":  fixed("Asegura que los enlaces sean autoexplicativos o tengan contexto suficiente (evitar 'clic aquí' ambiguo)."),
	"2.4.7":  fixed("Define estilos de foco visibles (outline/border/box-shadow) para elementos interactivos."),
	"2.5.5":  fixed("Aumenta el área interactiva de botones y enlaces a 44px de ancho/alto cuando sea viable."),
	"3.1.1":  fixed("Configura el atributo lang en <html> con el idioma principal (p. ej., 'es')."),
	"3.1.2":  fixed("Marca con lang las frases o secciones en otro idioma (p. ej., <span lang='en'>Hello</span>)."),
	"3.3.2":  fixed("Asegura que todos los campos tengan etiqueta asociada o instrucciones claras."),
	"4.1.1":  fixed("Elimina o renombra IDs duplicados para evitar conflictos."),
	"4.1.2":  fixed("Proporciona nombres accesibles a controles, valida roles/propiedades ARIA y corrige referencias rotas."),
	"4.1.3":  fixed("Usa regiones vivas (aria-live) o roles adecuados para anunciar mensajes de estado."),
}

// Recommendations returns the suggested fixes for criterion code. A passing
// verdict never gets any.
func Recommendations(code string, d Details, verdict Verdict) []string {
	if verdict.Normalize() == VerdictPass {
		return nil
	}
	if d == nil {
		d = Details{}
	}
	if f, ok := recommenders[code]; ok {
		return f(d)
	}
	return []string{genericRecommendation}
}

func recommendStructure(d Details) []string {
	var recs []string
	if v, ok := d["heading_hierarchy_ok"].(bool); ok && !v {
		recs = append(recs, "Revisa la jerarquía de encabezados (h1 → h2 → h3…) sin saltos inconsistentes.")
	}
	if truthy(d["landmarks"]) {
		recs = append(recs, "Incluye landmarks semánticos (header, nav, main, footer, aside) según corresponda.")
	}
	return recs
}
