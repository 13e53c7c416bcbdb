// Package i18n translates UI strings and flash messages (English and French).
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Default is used when no supported language is requested.
const Default = "en"

var (
	supported = []language.Tag{language.English, language.French}
	matcher   = language.NewMatcher(supported)
	printers  = map[string]*message.Printer{}
)

var messages = map[string][2]string{
	// validation codes
	"required":       {"Required", "Requis"},
	"email":          {"Invalid email address", "Adresse e-mail invalide"},
	"max":            {"Too long", "Trop long"},
	"oneof":          {"Not an allowed value", "Valeur non autorisée"},
	"invalid":        {"Invalid value", "Valeur invalide"},
	"numeric":        {"Must be a number", "Doit être un nombre"},
	"invalid_date":   {"Use the YYYY-MM-DD format", "Utilisez le format AAAA-MM-JJ"},
	"due_before":     {"Due date is before the invoice date", "L'échéance précède la date de facture"},
	"unknown_choice": {"Unknown selection", "Sélection inconnue"},

	// flash messages
	"flash.customer_created": {"Customer created", "Client créé"},
	"flash.customer_updated": {"Customer updated", "Client mis à jour"},
	"flash.product_created":  {"Item created", "Article créé"},
	"flash.product_updated":  {"Item updated", "Article mis à jour"},
	"flash.invoice_created":  {"Invoice created", "Facture créée"},
	"flash.invoice_emailed":  {"Invoice emailed", "Facture envoyée"},
	"flash.email_error":      {"Email error: %s", "Erreur d'envoi : %s"},
	"flash.db_initialized":   {"Database initialized", "Base de données initialisée"},

	// navigation and headings
	"nav.dashboard": {"Dashboard", "Tableau de bord"},
	"nav.customers": {"Customers", "Clients"},
	"nav.products":  {"Products", "Produits"},
	"nav.invoices":  {"Invoices", "Factures"},

	"dashboard.recent_invoices":  {"Latest invoices", "Dernières factures"},
	"dashboard.recent_customers": {"Newest customers", "Nouveaux clients"},
	"dashboard.init_db":          {"Initialize database", "Initialiser la base"},

	"customers.new":   {"New customer", "Nouveau client"},
	"customers.edit":  {"Edit customer", "Modifier le client"},
	"customers.empty": {"No customers yet", "Aucun client"},
	"products.new":    {"New item", "Nouvel article"},
	"products.edit":   {"Edit item", "Modifier l'article"},
	"products.empty":  {"No items yet", "Aucun article"},
	"invoices.new":    {"New invoice", "Nouvelle facture"},
	"invoices.empty":  {"No invoices yet", "Aucune facture"},

	"action.save":       {"Save", "Enregistrer"},
	"action.cancel":     {"Cancel", "Annuler"},
	"action.edit":       {"Edit", "Modifier"},
	"action.search":     {"Search", "Rechercher"},
	"action.send_email": {"Send by email", "Envoyer par e-mail"},
	"action.add_line":   {"Add line", "Ajouter une ligne"},
	"form.errors":       {"Please fix the errors below", "Veuillez corriger les erreurs ci-dessous"},

	"field.first_name":  {"First name", "Prénom"},
	"field.last_name":   {"Last name", "Nom"},
	"field.email":       {"Email", "E-mail"},
	"field.phone":       {"Phone", "Téléphone"},
	"field.address":     {"Address", "Adresse"},
	"field.city":        {"City", "Ville"},
	"field.state":       {"State / Province", "État / Province"},
	"field.postal_code": {"Postal code", "Code postal"},
	"field.country":     {"Country", "Pays"},
	"field.name":        {"Name", "Nom"},
	"field.description": {"Description", "Description"},
	"field.unit_price":  {"Unit price", "Prix unitaire"},
	"field.is_service":  {"Service", "Prestation"},
	"field.kind":        {"Type", "Type"},
	"field.customer":    {"Customer", "Client"},
	"field.issue_date":  {"Invoice date", "Date de facture"},
	"field.due_date":    {"Due date", "Échéance"},
	"field.notes":       {"Notes", "Notes"},
	"field.quantity":    {"Quantity", "Quantité"},
	"field.amount":      {"Amount", "Montant"},
	"field.status":      {"Status", "Statut"},

	"invoice.title":    {"Invoice", "Facture"},
	"invoice.bill_to":  {"Bill to", "Facturer à"},
	"invoice.items":    {"Items", "Lignes"},
	"invoice.subtotal": {"Subtotal", "Sous-total"},
	"invoice.tax":      {"Tax", "Taxe"},
	"invoice.total":    {"Total", "Total"},
	"status.draft":     {"Draft", "Brouillon"},
	"status.sent":      {"Sent", "Envoyée"},
}

func init() {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range messages {
		_ = b.SetString(language.English, key, tr[0])
		_ = b.SetString(language.French, key, tr[1])
	}
	for _, tag := range supported {
		base, _ := tag.Base()
		printers[base.String()] = message.NewPrinter(tag, message.Catalog(b))
	}
}

// DetectLanguage picks the best supported language from an Accept-Language
// header value.
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	tag, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	base, _ := tag.Base()
	return Normalize(base.String())
}

// Normalize maps any value to a supported language code.
func Normalize(lang string) string {
	if _, ok := printers[lang]; ok {
		return lang
	}
	return Default
}

// T returns the translation of code, or code itself when unknown.
func T(lang, code string) string {
	if _, ok := messages[code]; !ok {
		return code
	}
	return printers[Normalize(lang)].Sprintf(code)
}

// Tf translates code and formats it with args.
func Tf(lang, code string, args ...any) string {
	if _, ok := messages[code]; !ok {
		return code
	}
	return printers[Normalize(lang)].Sprintf(code, args...)
}
