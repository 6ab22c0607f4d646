package chatbot

import (
	"fmt"
	"strings"

	"ia-papeleria/internal/model"
)

const (
	replyGreeting = "¡Hola! 👋 Soy PapelBot, tu asistente inteligente de la Papelería Andes. ¿En qué puedo ayudarte hoy?\n\n💡 Escribe 'ayuda' para ver todos los comandos disponibles."

	replyHelp = `📋 **COMANDOS DISPONIBLES:**

**🏪 Consultas de Inventario:**
• "¿Tienen cuadernos?" - Verificar disponibilidad
• "Stock de lápices" - Ver cantidad disponible
• "Productos con poco stock" - Ver alertas

**💰 Gestión de Ventas:**
• "Vendi 5 cuadernos" - Registrar venta
• "Ventas de hoy" - Ver ventas del día

**🔮 Predicciones:**
• "Predice demanda de cuadernos" - Predecir demanda
• "Alertas de demanda" - Ver productos críticos

**ℹ️ Información General:**
• "Horarios" - Horario de atención
• "Ubicación" - Dirección de la papelería`

	replyHours = "🕐 **HORARIOS DE ATENCIÓN:**\n\n• Lunes a Viernes: 7:00 AM - 6:00 PM\n• Sábados: 8:00 AM - 4:00 PM\n• Domingos: 9:00 AM - 2:00 PM\n\n📍 Ubicados en el centro de Andes, Antioquia"

	replyLocation = "📍 **UBICACIÓN:**\n\nPapelería Inteligente Andes\nCarrera 5 # 8-45, Centro\nAndes, Antioquia, Colombia\n\n📞 Teléfono: (604) 855-1234\n📧 Email: info@papeleriaandes.com"

	replyAvailabilityUnknown = "🤔 No pude identificar qué producto buscas. ¿Podrías mencionar el nombre específico? (ej: '¿Tienen cuadernos?')"
	replyStockAsk            = "🤔 ¿De qué producto quieres saber el stock? (ej: 'Stock de cuadernos')"
	replyNoLowStock          = "✅ **EXCELENTE:** Todos los productos tienen stock suficiente. ¡Ninguna alerta de inventario!"
	replySaleFormat          = "🤔 Formato incorrecto. Usa: 'Vendi [cantidad] [producto]' (ej: 'Vendi 3 cuadernos')"
	replyForecastAsk         = "🤔 ¿De qué producto quieres la predicción? (ej: 'Predice demanda de cuadernos')"
	replyNoAlerts            = "✅ **SIN ALERTAS:** Todos los productos tienen stock suficiente para la demanda predicha."
	replyEmpty               = "🤔 No recibí ningún mensaje. Escribe 'ayuda' para ver lo que puedo hacer."
	replyInternal            = "😓 Tuve un problema procesando tu mensaje. Intenta de nuevo en un momento o escribe 'ayuda'."
	replyStoreDown           = "😓 El inventario no está disponible en este momento. Intenta de nuevo en unos minutos."

	maxListed = 5
)

func availabilityReply(p model.Product) string {
	if p.Stock > 0 {
		return fmt.Sprintf("✅ **SÍ TENEMOS %s**\n\n📦 Stock disponible: %d unidades\n💰 Precio: %s\n🏷️ Categoría: %s",
			upper(p.Name), p.Stock, money(p.Price), orDefault(p.Category, "General"))
	}
	return fmt.Sprintf("❌ **NO HAY STOCK** de %s\n\n📅 Fecha estimada de llegada: Consultar con proveedor\n💡 ¿Te gustaría que te avise cuando llegue?", p.Name)
}

func aiAvailabilityReply(text string) string {
	return fmt.Sprintf("🤖 **Respuesta Inteligente:** %s\n\n💡 *Respuesta generada con IA basada en nuestro catálogo*", text)
}

func aiFallbackReply(text string) string {
	return fmt.Sprintf("🤖 **PapelBot IA:** %s\n\n💡 *Respuesta inteligente generada con IA*", text)
}

func lowStockReply(products []model.Product) string {
	if len(products) == 0 {
		return replyNoLowStock
	}
	var b strings.Builder
	b.WriteString("⚠️ **PRODUCTOS CON STOCK BAJO:**\n\n")
	for i, p := range products {
		if i == maxListed {
			break
		}
		fmt.Fprintf(&b, "• %s: %d/%d unidades\n", p.Name, p.Stock, p.MinStock)
	}
	b.WriteString("\n📞 Recomiendo contactar al proveedor para reabastecer.")
	return b.String()
}

func stockReply(p model.Product) string {
	state := "✅ Suficiente"
	if p.IsLowStock() {
		state = "⚠️ Bajo"
	}
	return fmt.Sprintf("📊 **STOCK DE %s:**\n\n📦 Unidades disponibles: %d\n🎯 Stock mínimo: %d\n📈 Estado: %s",
		upper(p.Name), p.Stock, p.MinStock, state)
}

func saleReply(r *model.SaleReceipt) string {
	return fmt.Sprintf("✅ **VENTA REGISTRADA**\n\n📦 Producto: %s\n🔢 Cantidad: %d unidades\n💰 Total: %s\n📊 Stock restante: %d unidades",
		r.ProductName, r.Quantity, money(r.Total), r.RemainingStock)
}

func insufficientStockReply(e *model.StockError) string {
	return fmt.Sprintf("❌ **STOCK INSUFICIENTE**\n\n📦 %s tiene solo %d unidades disponibles\n💡 No se puede vender %d unidades.",
		e.Product, e.Available, e.Requested)
}

func productNotFoundReply(fragment string) string {
	return fmt.Sprintf("❓ No encontré el producto '%s' en el catálogo.", fragment)
}

func forecastReply(p model.Product, res *model.ForecastResult) string {
	state := "✅ Suficiente"
	if float64(p.Stock) < res.PredictedDemand {
		state = "🚨 Reabastecer"
	}
	return fmt.Sprintf("🔮 **PREDICCIÓN DE DEMANDA**\n\n📦 Producto: %s\n📊 Demanda predicha (%d días): %s unidades\n📦 Stock actual: %d\n⚠️ Estado: %s\nℹ️ %s",
		p.Name, res.DaysAhead, units(res.PredictedDemand), p.Stock, state, res.Message)
}

func alertsReply(alerts []model.DemandAlert) string {
	if len(alerts) == 0 {
		return replyNoAlerts
	}
	var b strings.Builder
	b.WriteString("🚨 **ALERTAS DE DEMANDA CRÍTICA:**\n\n")
	for i, a := range alerts {
		if i == maxListed {
			break
		}
		fmt.Fprintf(&b, "• %s: Stock %d vs Demanda %s\n", a.ProductName, a.CurrentStock, units(a.PredictedDemand))
	}
	b.WriteString("\n📞 Recomiendo reabastecer estos productos urgentemente.")
	return b.String()
}

func summaryReply(s *model.SalesSummary) string {
	return fmt.Sprintf("💰 **VENTAS DE HOY**\n\n📊 Número de ventas: %d\n💵 Total vendido: %s\n📈 Promedio por venta: %s",
		s.Count, money(s.Total), money(s.Average))
}
