package ai

import "strings"

const (
	ReplyNoProvider = "🤖 Lo siento, no tengo acceso a servicios de IA en este momento. ¿Puedo ayudarte con información sobre nuestros productos o inventario?"
	ReplyTechnical  = "🤖 Disculpa, tuve un problema técnico. ¿Puedes reformular tu pregunta o intentar con un comando específico como 'ayuda'?"
)

// SystemPrompt wraps the store context with the assistant persona and tone rules.
func SystemPrompt(storeContext string) string {
	var b strings.Builder
	b.WriteString("Eres PapelBot, un asistente inteligente para la Papelería Inteligente Andes en Colombia.\n\n")
	b.WriteString("Contexto de la papelería:\n")
	if strings.TrimSpace(storeContext) == "" {
		b.WriteString("(sin datos de inventario disponibles)")
	} else {
		b.WriteString(storeContext)
	}
	b.WriteString("\n\nInstrucciones:\n")
	b.WriteString("- Sé amable, profesional y servicial\n")
	b.WriteString("- Si no sabes algo específico sobre la papelería, di que no tienes esa información\n")
	b.WriteString("- Mantén respuestas concisas pero útiles\n")
	b.WriteString("- Usa emojis apropiados para hacer las respuestas más amigables\n")
	b.WriteString("- Si es una pregunta general, responde de manera natural")
	return b.String()
}
