package service

import (
	"fmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"museum-ticket/common/constant"
	"museum-ticket/model"
)

func emailTemplate(templates map[string]constant.EmailTemplate, lang string) constant.EmailTemplate {
	if tpl, ok := templates[lang]; ok {
		return tpl
	}
	return templates[constant.DefaultLanguage]
}

// FormatPrice renders cents in the customer's language, e.g. "€91.70" or "€91,70".
func FormatPrice(lang string, cents int64) string {
	printer := message.NewPrinter(language.Make(languageOrDefault(lang)))
	return printer.Sprintf("€%.2f", float64(cents)/100)
}

func productName(id string) string {
	if p, ok := constant.ProductById[id]; ok {
		return p.Name
	}
	return id
}

// OrderReceivedEmail builds the receipt sent once an order is paid.
func OrderReceivedEmail(order model.Order) model.SendEmailEventMessage {
	tpl := emailTemplate(constant.EmailOrderReceivedTemplates, order.Language)

	return model.SendEmailEventMessage{
		To:      order.CustomerEmail,
		Subject: fmt.Sprintf(tpl.Subject, order.DisplayId),
		Body: fmt.Sprintf(tpl.Body,
			order.CustomerName,
			order.DisplayId,
			productName(order.Product),
			order.VisitDate,
			order.VisitTime,
			order.Adults,
			order.Reduced,
			FormatPrice(order.Language, order.TotalPriceCents),
		),
	}
}

// TicketsEmail builds the delivery mail that carries the ticket files.
func TicketsEmail(order model.Order) (subject string, body string) {
	tpl := emailTemplate(constant.EmailTicketsTemplates, order.Language)

	return tpl.Subject, fmt.Sprintf(tpl.Body,
		order.CustomerName,
		order.DisplayId,
		productName(order.Product),
		order.VisitDate,
		order.VisitTime,
	)
}
