package httpserver

const colabInstructions = `Copia el código y pégalo en **Google Colab**. Luego ejecútalo para analizar
los datos exportados desde el panel.

1. Descarga la exportación en *CSV* o *Excel* desde el panel principal.
2. Abre un cuaderno nuevo en [Google Colab](https://colab.research.google.com/).
3. Pega el script y ejecuta la celda; se te pedirá subir el archivo.
`

const colabScript = `# ============================================
# CÓDIGO DE ANÁLISIS - GOOGLE COLAB
# ============================================
import pandas as pd
from google.colab import files

uploaded = files.upload()
name = next(iter(uploaded))
df = pd.read_excel(name) if name.endswith(".xlsx") else pd.read_csv(name)

print("Auditorías:", len(df))
if "score" in df.columns:
    print("Puntaje promedio:", round(df["score"].mean() / 2 * 100, 1), "%")
if "url" in df.columns:
    print(df.groupby("url").size().sort_values(ascending=False).head(10))
`
