package i18n

import "strings"

// Default language used when no preference can be resolved.
const DefaultLang = "fr"

// translations[lang][code] = user-facing string.
// Codes double as fallback text so a missing entry stays visible instead of
// rendering an empty string.
var translations = map[string]map[string]string{
	"fr": {
		"app_title":     "Devis",
		"nav_dashboard": "Tableau de bord",
		"nav_quotes":    "Devis",
		"nav_products":  "Produits",
		"nav_customers": "Clients",
		"nav_logout":    "Déconnexion",
		"nav_login":     "Connexion",
		"nav_signup":    "Inscription",

		"required":             "Requis",
		"must_be_positive":     "Doit être strictement positif",
		"must_be_non_negative": "Ne peut pas être négatif",
		"out_of_range":         "Hors limites",

		"quotes":          "Devis",
		"new_quote":       "Nouveau devis",
		"edit_quote":      "Modifier le devis",
		"customer":        "Client",
		"quote_number":    "Numéro de devis",
		"issue_date":      "Date d'émission",
		"expiry_date":     "Date d'expiration",
		"status":          "Statut",
		"tax_rate":        "Taux de TVA (%)",
		"notes":           "Notes",
		"items":           "Lignes",
		"description":     "Description",
		"quantity":        "Quantité",
		"unit_price":      "Prix unitaire",
		"amount":          "Montant",
		"subtotal":        "Sous-total",
		"tax_amount":      "TVA",
		"total":           "Total",
		"add_item":        "Ajouter une ligne",
		"remove_item":     "Supprimer la ligne",
		"custom_item":     "Ligne libre",
		"search_products": "Rechercher un produit…",
		"save":            "Enregistrer",

		"status_draft":     "Brouillon",
		"status_sent":      "Envoyé",
		"status_accepted":  "Accepté",
		"status_rejected":  "Refusé",
		"status_converted": "Converti",

		"submit_failed":       "L'enregistrement a échoué, veuillez réessayer.",
		"unauthorized":        "Connexion requise",
		"quote_limit_reached": "Vous avez atteint la limite de devis de votre offre.",
		"upgrade_title":       "Passez à l'offre Pro",
		"upgrade_body":        "L'offre gratuite est limitée. Passez à Pro pour créer des devis illimités.",
		"upgrade_cta":         "Mettre à niveau",
		"upgrade_dismiss":     "Plus tard",
		"per_month":           "mois",
		"current_plan":        "Offre actuelle",

		"error_title": "Une erreur est survenue",
		"error_body":  "La page n'a pas pu être affichée.",
		"reload":      "Recharger",
		"return_home": "Retour à l'accueil",
	},
	"en": {
		"app_title":     "Quotes",
		"nav_dashboard": "Dashboard",
		"nav_quotes":    "Quotes",
		"nav_products":  "Products",
		"nav_customers": "Customers",
		"nav_logout":    "Log out",
		"nav_login":     "Log in",
		"nav_signup":    "Sign up",

		"required":             "Required",
		"must_be_positive":     "Must be greater than zero",
		"must_be_non_negative": "Cannot be negative",
		"out_of_range":         "Out of range",

		"quotes":          "Quotes",
		"new_quote":       "New quote",
		"edit_quote":      "Edit quote",
		"customer":        "Customer",
		"quote_number":    "Quote number",
		"issue_date":      "Issue date",
		"expiry_date":     "Expiry date",
		"status":          "Status",
		"tax_rate":        "Tax rate (%)",
		"notes":           "Notes",
		"items":           "Line items",
		"description":     "Description",
		"quantity":        "Quantity",
		"unit_price":      "Unit price",
		"amount":          "Amount",
		"subtotal":        "Subtotal",
		"tax_amount":      "Tax",
		"total":           "Total",
		"add_item":        "Add line",
		"remove_item":     "Remove line",
		"custom_item":     "Custom item",
		"search_products": "Search products…",
		"save":            "Save",

		"status_draft":     "Draft",
		"status_sent":      "Sent",
		"status_accepted":  "Accepted",
		"status_rejected":  "Rejected",
		"status_converted": "Converted",

		"submit_failed":       "Saving failed, please try again.",
		"unauthorized":        "Sign-in required",
		"quote_limit_reached": "You have reached your plan's quote limit.",
		"upgrade_title":       "Upgrade to Pro",
		"upgrade_body":        "The free plan is limited. Upgrade to Pro for unlimited quotes.",
		"upgrade_cta":         "Upgrade",
		"upgrade_dismiss":     "Not now",
		"per_month":           "month",
		"current_plan":        "Current plan",

		"error_title": "Something went wrong",
		"error_body":  "The page could not be displayed.",
		"reload":      "Reload",
		"return_home": "Return home",
	},
}

// T translates code for lang. Unknown languages fall back to the default
// language; unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if lang != DefaultLang {
		if s, ok := translations[DefaultLang][code]; ok {
			return s
		}
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if i := strings.IndexAny(tag, "-;"); i >= 0 {
			tag = tag[:i]
		}
		switch tag {
		case "en", "fr":
			return tag
		}
	}
	return DefaultLang
}
