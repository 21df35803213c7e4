package wcag

// catalog holds the WCAG 2.1 success criteria shown in the dashboard.
var catalog = map[string]Criterion{
	// Perceptible
	"1.1.1": {Code: "1.1.1", Title: "Contenido no textual", Level: LevelA, Principle: PrinciplePerceptible},
	"1.2.1": {Code: "1.2.1", Title: "Solo audio y solo vídeo (pregrabado)", Level: LevelA, Principle: PrinciplePerceptible},
	"1.2.2": {Code: "1.2.2", Title: "Subtítulos (pregrabado)", Level: LevelA, Principle: PrinciplePerceptible},
	"1.2.3": {Code: "1.2.3", Title: "Audiodescripción o alternativa multimedia (pregrabado)", Level: LevelA, Principle: PrinciplePerceptible},
	"1.2.4": {Code: "1.2.4", Title: "Subtítulos (en directo)", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.2.5": {Code: "1.2.5", Title: "Audiodescripción (pregrabado)", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.2.6": {Code: "1.2.6", Title: "Lengua de señas (pregrabado)", Level: LevelAAA, Principle: PrinciplePerceptible},
	"1.2.7": {Code: "1.2.7", Title: "Audiodescripción extendida (pregrabado)", Level: LevelAAA, Principle: PrinciplePerceptible},
	"1.2.8": {Code: "1.2.8", Title: "Alternativa para medios (pregrabado)", Level: LevelAAA, Principle: PrinciplePerceptible},
	"1.2.9": {Code: "1.2.9", Title: "Solo audio (en directo)", Level: LevelAAA, Principle: PrinciplePerceptible},
	"1.3.1": {Code: "1.3.1", Title: "Información y relaciones", Level: LevelA, Principle: PrinciplePerceptible},
	"1.3.2": {Code: "1.3.2", Title: "Secuencia significativa", Level: LevelA, Principle: PrinciplePerceptible},
	"1.3.3": {Code: "1.3.3", Title: "Características sensoriales", Level: LevelA, Principle: PrinciplePerceptible},
	"1.3.4": {Code: "1.3.4", Title: "Orientación", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.3.5": {Code: "1.3.5", Title: "Identificar el propósito de la entrada", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.3.6": {Code: "1.3.6", Title: "Identificar el propósito", Level: LevelAAA, Principle: PrinciplePerceptible},
	"1.4.1": {Code: "1.4.1", Title: "Uso del color", Level: LevelA, Principle: PrinciplePerceptible},
	"1.4.2": {Code: "1.4.2", Title: "Control de audio", Level: LevelA, Principle: PrinciplePerceptible},
	"1.4.3": {Code: "1.4.3", Title: "Contraste (mínimo)", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.4.4": {Code: "1.4.4", Title: "Redimensionar texto", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.4.5": {Code: "1.4.5", Title: "Imágenes de texto", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.4.6": {Code: "1.4.6", Title: "Contraste (mejorado)", Level: LevelAAA, Principle: PrinciplePerceptible},
	"1.4.7": {Code: "1.4.7", Title: "Audio de fondo bajo o inexistente", Level: LevelAAA, Principle: PrinciplePerceptible},
	"1.4.8": {Code: "1.4.8", Title: "Presentación visual", Level: LevelAAA, Principle: PrinciplePerceptible},
	"1.4.9": {Code: "1.4.9", Title: "Imágenes de texto (sin excepción)", Level: LevelAAA, Principle: PrinciplePerceptible},
	"1.4.10": {Code: "1.4.10", Title: "Reflow", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.4.11": {Code: "1.4.11", Title: "Contraste no textual", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.4.12": {Code: "1.4.12", Title: "Espaciado de texto", Level: LevelAA, Principle: PrinciplePerceptible},
	"1.4.13": {Code: "1.4.13", Title: "Contenido al pasar el cursor o al enfocar", Level: LevelAA, Principle: PrinciplePerceptible},

	// Operable
	"2.1.1": {Code: "2.1.1", Title: "Teclado", Level: LevelA, Principle: PrincipleOperable},
	"2.1.2": {Code: "2.1.2", Title: "Sin trampa de teclado", Level: LevelA, Principle: PrincipleOperable},
	"2.1.3": {Code: "2.1.3", Title: "Teclado (sin excepción)", Level: LevelAAA, Principle: PrincipleOperable},
	"2.1.4": {Code: "2.1.4", Title: "Atajos de teclas de un carácter", Level: LevelA, Principle: PrincipleOperable},
	"2.2.1": {Code: "2.2.1", Title: "Tiempo ajustable", Level: LevelA, Principle: PrincipleOperable},
	"2.2.2": {Code: "2.2.2", Title: "Pausar, detener, ocultar", Level: LevelA, Principle: PrincipleOperable},
	"2.2.3": {Code: "2.2.3", Title: "Sin temporización", Level: LevelAAA, Principle: PrincipleOperable},
	"2.2.4": {Code: "2.2.4", Title: "Interrupciones", Level: LevelAAA, Principle: PrincipleOperable},
	"2.2.5": {Code: "2.2.5", Title: "Reautenticación", Level: LevelAAA, Principle: PrincipleOperable},
	"2.2.6": {Code: "2.2.6", Title: "Exclusiones de temporización", Level: LevelAAA, Principle: PrincipleOperable},
	"2.3.1": {Code: "2.3.1", Title: "Tres destellos o por debajo del umbral", Level: LevelA, Principle: PrincipleOperable},
	"2.3.2": {Code: "2.3.2", Title: "Tres destellos", Level: LevelAAA, Principle: PrincipleOperable},
	"2.3.3": {Code: "2.3.3", Title: "Animación por interacción", Level: LevelAAA, Principle: PrincipleOperable},
	"2.4.1": {Code: "2.4.1", Title: "Omitir bloques", Level: LevelA, Principle: PrincipleOperable},
	"2.4.2": {Code: "2.4.2", Title: "Página titulada", Level: LevelA, Principle: PrincipleOperable},
	"2.4.3": {Code: "2.4.3", Title: "Orden del foco", Level: LevelA, Principle: PrincipleOperable},
	"2.4.4": {Code: "2.4.4", Title: "Propósito de los enlaces (en contexto)", Level: LevelA, Principle: PrincipleOperable},
	"2.4.5": {Code: "2.4.5", Title: "Múltiples maneras", Level: LevelAA, Principle: PrincipleOperable},
	"2.4.6": {Code: "2.4.6", Title: "Encabezados y etiquetas", Level: LevelAA, Principle: PrincipleOperable},
	"2.4.7": {Code: "2.4.7", Title: "Foco visible", Level: LevelAA, Principle: PrincipleOperable},
	"2.4.8": {Code: "2.4.8", Title: "Ubicación", Level: LevelAAA, Principle: PrincipleOperable},
	"2.4.9": {Code: "2.4.9", Title: "Propósito de los enlaces (solo enlace)", Level: LevelAAA, Principle: PrincipleOperable},
	"2.4.10": {Code: "2.4.10", Title: "Encabezados de sección", Level: LevelAAA, Principle: PrincipleOperable},
	"2.5.1": {Code: "2.5.1", Title: "Gestos del puntero", Level: LevelA, Principle: PrincipleOperable},
	"2.5.2": {Code: "2.5.2", Title: "Cancelación del puntero", Level: LevelA, Principle: PrincipleOperable},
	"2.5.3": {Code: "2.5.3", Title: "Etiqueta en el nombre", Level: LevelA, Principle: PrincipleOperable},
	"2.5.4": {Code: "2.5.4", Title: "Activación por movimiento", Level: LevelA, Principle: PrincipleOperable},
	"2.5.5": {Code: "2.5.5", Title: "Tamaño del objetivo", Level: LevelAAA, Principle: PrincipleOperable},
	"2.5.6": {Code: "2.5.6", Title: "Mecanismos de entrada simultáneos", Level: LevelAAA, Principle: PrincipleOperable},

	// Comprensible
	"3.1.1": {Code: "3.1.1", Title: "Idioma de la página", Level: LevelA, Principle: PrincipleComprensible},
	"3.1.2": {Code: "3.1.2", Title: "Idioma de las partes", Level: LevelAA, Principle: PrincipleComprensible},
	"3.1.3": {Code: "3.1.3", Title: "Palabras inusuales", Level: LevelAAA, Principle: PrincipleComprensible},
	"3.1.4": {Code: "3.1.4", Title: "Abreviaturas", Level: LevelAAA, Principle: PrincipleComprensible},
	"3.1.5": {Code: "3.1.5", Title: "Nivel de lectura", Level: LevelAAA, Principle: PrincipleComprensible},
	"3.1.6": {Code: "3.1.6", Title: "Pronunciación", Level: LevelAAA, Principle: PrincipleComprensible},
	"3.2.1": {Code: "3.2.1", Title: "Al recibir el foco", Level: LevelA, Principle: PrincipleComprensible},
	"3.2.2": {Code: "3.2.2", Title: "Al introducir datos", Level: LevelA, Principle: PrincipleComprensible},
	"3.2.3": {Code: "3.2.3", Title: "Navegación consistente", Level: LevelAA, Principle: PrincipleComprensible},
	"3.2.4": {Code: "3.2.4", Title: "Identificación consistente", Level: LevelAA, Principle: PrincipleComprensible},
	"3.2.5": {Code: "3.2.5", Title: "Cambio a petición", Level: LevelAAA, Principle: PrincipleComprensible},
	"3.3.1": {Code: "3.3.1", Title: "Identificación de errores", Level: LevelA, Principle: PrincipleComprensible},
	"3.3.2": {Code: "3.3.2", Title: "Etiquetas o instrucciones", Level: LevelA, Principle: PrincipleComprensible},
	"3.3.3": {Code: "3.3.3", Title: "Sugerencia ante errores", Level: LevelAA, Principle: PrincipleComprensible},
	"3.3.4": {Code: "3.3.4", Title: "Prevención de errores (legal, financiero, datos)", Level: LevelAA, Principle: PrincipleComprensible},
	"3.3.5": {Code: "3.3.5", Title: "Ayuda", Level: LevelAAA, Principle: PrincipleComprensible},
	"3.3.6": {Code: "3.3.6", Title: "Prevención de errores (todos)", Level: LevelAAA, Principle: PrincipleComprensible},

	// Robusto
	"4.1.1": {Code: "4.1.1", Title: "Análisis sintáctico", Level: LevelA, Principle: PrincipleRobusto},
	"4.1.2": {Code: "4.1.2", Title: "Nombre, función, valor", Level: LevelA, Principle: PrincipleRobusto},
	"4.1.3": {Code: "4.1.3", Title: "Mensajes de estado", Level: LevelAA, Principle: PrincipleRobusto},
}

var explanations = map[string]string{
	"1.1.1": "Revisa que las imágenes y contenidos no textuales tengan texto alternativo o sean marcados como decorativos. Esto permite a usuarios con lector de pantalla comprender el contenido.",
	"1.2.2": "Verifica que los videos pregrabados tengan subtítulos. Esto ayuda a usuarios sordos o con dificultades auditivas.",
	"1.3.1": "Comprueba que la estructura se transmita correctamente (encabezados, tablas con encabezados, landmarks). Esto mantiene relaciones e información para tecnologías de asistencia.",
	"1.3.5": "Comprueba que los campos de formularios tengan atributos para identificar su propósito (por ejemplo, autocomplete). Mejora autocompletado y accesibilidad.",
	"1.4.3": "Mide el contraste mínimo del texto frente al fondo. Un contraste suficiente mejora lectura para baja visión.",
	"1.4.10": "Verifica reflow (sin scroll horizontal) a 320px de ancho. Garantiza uso en móviles sin pérdida de información.",
	"1.4.11": "Revisa contraste de componentes no textuales (bordes, controles, iconos). Mejora la percepción visual.",
	"2.1.1": "Verifica que toda la funcionalidad sea operable con teclado. Es crítico para usuarios que no usan mouse.",
	"2.4.1": "Comprueba mecanismos para saltar bloques repetitivos (skip link, landmark main). Acelera la navegación con teclado.",
	"2.4.4": "Evalúa que los enlaces tengan propósito claro en contexto. Evita ambigüedades como 'leer más' sin contexto.",
	"2.4.7": "Comprueba que el foco sea visible al navegar con teclado. Permite identificar dónde está el foco.",
	"2.5.5": "Verifica que los objetivos interactivos tengan tamaño adecuado (~44px). Facilita su activación táctil.",
	"3.1.1": "Confirma que la página define su idioma principal (lang). Es vital para pronunciación correcta en lectores.",
	"3.1.2": "Detecta partes con idioma distinto marcadas adecuadamente (lang). Ayuda a pronunciar nombres o frases extranjeras.",
	"3.3.2": "Revisa que los campos de formularios tengan etiquetas o instrucciones. Guía a usuarios en su llenado.",
	"4.1.1": "Detecta problemas de marcado como IDs duplicados. Evita confusión en scripts y tecnologías de asistencia.",
	"4.1.2": "Verifica nombre, rol y valor de elementos (incluye nombres accesibles y ARIA coherente). Fundamental para asistentes.",
	"4.1.3": "Comprueba mensajes de estado anunciados correctamente (live regions). Ayuda a notificar cambios sin foco.",
}
