package chatbot

import (
	"fmt"
	"strings"

	"ia-papeleria/internal/model"
	"ia-papeleria/internal/transcript"
)

const availabilityContextSize = 20

func availabilityContext(catalog []model.Product) string {
	var b strings.Builder
	b.WriteString("Papelería Inteligente Andes - Catálogo de Productos Disponibles:\n")
	for i, p := range catalog {
		if i == availabilityContextSize {
			break
		}
		fmt.Fprintf(&b, "- %s (%s, stock: %d)\n", p.Name, money(p.Price), p.Stock)
	}
	b.WriteString("\nInstrucciones específicas:\n")
	b.WriteString("- Si el usuario pregunta por un producto, busca en la lista de arriba\n")
	b.WriteString("- Si no está en la lista, sugiere alternativas similares\n")
	b.WriteString("- Sé específico con precios y stock disponible\n")
	b.WriteString("- Si no hay stock, sugiere cuándo podría llegar")
	return b.String()
}

type storeSnapshot struct {
	catalog []model.Product
	recent  []model.Sale
	today   *model.SalesSummary
	history []transcript.Entry
}

func fullContext(s storeSnapshot) string {
	var b strings.Builder
	b.WriteString("PAPELERÍA INTELIGENTE ANDES - CONTEXTO COMPLETO:\n\n")
	b.WriteString("📍 INFORMACIÓN DEL NEGOCIO:\n")
	b.WriteString("- Ubicación: Carrera 5 # 8-45, Centro, Andes, Antioquia, Colombia\n")
	b.WriteString("- Especialidad: Artículos escolares, útiles de oficina, tecnología básica\n")
	b.WriteString("- Servicios: Fotocopias, impresiones, anillados, plastificados\n")
	b.WriteString("- Clientes: Estudiantes, instituciones educativas, comunidad local\n")
	b.WriteString("- Temporada alta: Inicio de año escolar (enero-febrero), junio-julio\n\n")

	b.WriteString("🏪 CATÁLOGO COMPLETO DE PRODUCTOS:\n")
	lowStock := 0
	for _, p := range s.catalog {
		fmt.Fprintf(&b, "- %s: %s (stock: %d)\n", p.Name, money(p.Price), p.Stock)
		if p.IsLowStock() {
			lowStock++
		}
	}

	b.WriteString("\n📊 INFORMACIÓN ACTUAL DEL SISTEMA:\n")
	fmt.Fprintf(&b, "- Total productos registrados: %d\n", len(s.catalog))
	fmt.Fprintf(&b, "- Productos con stock bajo: %d\n", lowStock)
	b.WriteString("- Ventas recientes:\n")
	for _, sale := range s.recent {
		name := sale.ProductID.String()
		if sale.Product != nil {
			name = sale.Product.Name
		}
		fmt.Fprintf(&b, "  - %d x %s: %s\n", sale.Quantity, name, money(sale.TotalPrice))
	}
	if s.today != nil {
		fmt.Fprintf(&b, "- Total ventas hoy: %s\n", money(s.today.Total))
	}

	if len(s.history) > 0 {
		b.WriteString("\n💬 CONVERSACIÓN RECIENTE:\n")
		for _, e := range s.history {
			who := "Cliente"
			if e.Role == transcript.RoleBot {
				who = "PapelBot"
			}
			fmt.Fprintf(&b, "- %s: %s\n", who, e.Text)
		}
	}

	b.WriteString("\n🎯 INSTRUCCIONES PARA RESPONDER:\n")
	b.WriteString("- Si preguntan por productos, busca en el catálogo de arriba\n")
	b.WriteString("- Sé específico con precios y stock disponible\n")
	b.WriteString("- Para consultas generales, usa el contexto del negocio\n")
	b.WriteString("- Mantén respuestas útiles y amigables\n")
	b.WriteString("- Si no sabes algo específico, admítelo y sugiere alternativas")
	return b.String()
}
