package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const docsPage = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>TOR API</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 48em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.6em; text-align: left; }
code { background: #f4f4f4; padding: 0.1em 0.3em; }
</style>
</head>
<body>
<h1>TOR API <small>V1</small></h1>
<p>API pour l'application des objets perdus ou retrouvés.</p>
<table>
<tr><th>Méthode</th><th>Chemin</th><th>Description</th></tr>
<tr><td>GET</td><td><code>/annonces</code></td><td>Toutes les annonces</td></tr>
<tr><td>GET</td><td><code>/annonces/public</code></td><td>Annonces actives publiées</td></tr>
<tr><td>GET</td><td><code>/annonces/private</code></td><td>Annonces en attente de validation</td></tr>
<tr><td>POST</td><td><code>/annonce/</code></td><td>Créer une annonce</td></tr>
<tr><td>GET</td><td><code>/annonce/{id}</code></td><td>Récupérer une annonce</td></tr>
<tr><td>PUT</td><td><code>/annonce/{id}</code></td><td>Mettre à jour une annonce</td></tr>
<tr><td>GET</td><td><code>/annonce/publier/{id}</code></td><td>Publier une annonce</td></tr>
<tr><td>GET</td><td><code>/annonce/done/{id}</code></td><td>Objet rendu au propriétaire</td></tr>
<tr><td>DELETE</td><td><code>/annonce/{id}</code></td><td>Supprimer une annonce</td></tr>
<tr><td>POST</td><td><code>/installation/</code></td><td>Enregistrer une installation</td></tr>
<tr><td>GET</td><td><code>/health</code></td><td>État du service</td></tr>
<tr><td>GET</td><td><code>/version</code></td><td>Version du service</td></tr>
</table>
</body>
</html>
`

// Docs serves the API reference page at the root path.
func (h *ListingsHandler) Docs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
}
