package chatbot

// Intent tags the rule that produced a reply.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentHelp         Intent = "help"
	IntentHours        Intent = "hours"
	IntentLocation     Intent = "location"
	IntentAvailability Intent = "availability"
	IntentStockQuery   Intent = "stock_query"
	IntentRecordSale   Intent = "record_sale"
	IntentForecast     Intent = "forecast"
	IntentSalesSummary Intent = "sales_summary"
	IntentFallbackAI   Intent = "fallback_ai"
	IntentUnhandled    Intent = "unhandled"
)

// trigger words, matched as substrings of the folded message
var (
	greetingTriggers     = []string{"hola", "buenos dias", "buenas tardes", "buenas noches", "saludos"}
	helpTriggers         = []string{"ayuda", "comandos"}
	hoursTriggers        = []string{"horario", "hora"}
	locationTriggers     = []string{"ubicacion", "direccion", "donde"}
	availabilityTriggers = []string{"tienen", "hay", "disponible"}
	stockTriggers        = []string{"stock"}
	lowStockTriggers     = []string{"poco", "bajo"}
	saleTriggers         = []string{"vendi"}
	forecastTriggers     = []string{"predic", "demanda"}
	alertTriggers        = []string{"alertas"}
)
