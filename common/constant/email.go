package constant

type EmailTemplate struct {
	Subject string
	Body    string
}

const DefaultLanguage = "en"

// Order received body args: name, display id, product, date, time, adults, reduced, total.
var EmailOrderReceivedTemplates = map[string]EmailTemplate{
	"en": {
		Subject: "Order Received - Access To Italy #%s",
		Body: `
Dear %s,

Thank you for your purchase! Your payment was successful and your order is confirmed.

Order Details:
------------------------------------------
Order ID: %s
Ticket: %s
Date: %s
Entry time: %s
Adults: %d
Reduced: %d
Total: %s
------------------------------------------

Your digital tickets will be sent in a separate email shortly.

Best regards,
Access To Italy Team

Note: This is an automated message, please do not reply to this email.
`,
	},
	"it": {
		Subject: "Ordine Ricevuto - Access To Italy #%s",
		Body: `
Gentile %s,

Grazie per il tuo acquisto! Il pagamento è andato a buon fine e il tuo ordine è confermato.

Dettagli dell'ordine:
------------------------------------------
ID ordine: %s
Biglietto: %s
Data: %s
Orario di ingresso: %s
Adulti: %d
Ridotti: %d
Totale: %s
------------------------------------------

I tuoi biglietti digitali ti saranno inviati a breve in un'email separata.

Cordiali saluti,
Il team di Access To Italy
`,
	},
	"de": {
		Subject: "Bestellung Erhalten - Access To Italy #%s",
		Body: `
Hallo %s,

vielen Dank für Ihren Einkauf! Ihre Zahlung war erfolgreich und Ihre Bestellung ist bestätigt.

Bestelldetails:
------------------------------------------
Bestellnummer: %s
Ticket: %s
Datum: %s
Einlasszeit: %s
Erwachsene: %d
Ermäßigt: %d
Gesamt: %s
------------------------------------------

Ihre digitalen Tickets erhalten Sie in Kürze in einer separaten E-Mail.

Mit freundlichen Grüßen,
Ihr Access To Italy Team
`,
	},
	"es": {
		Subject: "Pedido Recibido - Access To Italy #%s",
		Body: `
Estimado/a %s,

¡Gracias por su compra! Su pago se ha realizado correctamente y su pedido está confirmado.

Detalles del pedido:
------------------------------------------
ID del pedido: %s
Entrada: %s
Fecha: %s
Hora de entrada: %s
Adultos: %d
Reducidas: %d
Total: %s
------------------------------------------

Recibirá sus entradas digitales en breve en un correo separado.

Saludos cordiales,
El equipo de Access To Italy
`,
	},
	"fr": {
		Subject: "Commande Reçue - Access To Italy #%s",
		Body: `
Bonjour %s,

Merci pour votre achat ! Votre paiement a été accepté et votre commande est confirmée.

Détails de la commande :
------------------------------------------
N° de commande : %s
Billet : %s
Date : %s
Heure d'entrée : %s
Adultes : %d
Réduits : %d
Total : %s
------------------------------------------

Vous recevrez vos billets numériques sous peu dans un e-mail séparé.

Cordialement,
L'équipe Access To Italy
`,
	},
}

// Tickets body args: name, display id, product, date, time.
var EmailTicketsTemplates = map[string]EmailTemplate{
	"en": {
		Subject: "Your Digital Tickets - Access To Italy",
		Body: `
Dear %s,

Your tickets for order %s are attached to this email.

Ticket: %s
Date: %s
Entry time: %s

Please show the attached tickets at the entrance, printed or on your phone.
Arrive at least 15 minutes before your entry time.

Best regards,
Access To Italy Team
`,
	},
	"it": {
		Subject: "I tuoi Biglietti Digitali - Access To Italy",
		Body: `
Gentile %s,

in allegato trovi i biglietti relativi all'ordine %s.

Biglietto: %s
Data: %s
Orario di ingresso: %s

Mostra i biglietti all'ingresso, stampati o sul telefono.
Ti consigliamo di arrivare almeno 15 minuti prima dell'orario di ingresso.

Cordiali saluti,
Il team di Access To Italy
`,
	},
	"de": {
		Subject: "Ihre Digitalen Tickets - Access To Italy",
		Body: `
Hallo %s,

im Anhang finden Sie die Tickets zu Ihrer Bestellung %s.

Ticket: %s
Datum: %s
Einlasszeit: %s

Bitte zeigen Sie die Tickets am Eingang vor, ausgedruckt oder auf dem Handy.
Bitte seien Sie mindestens 15 Minuten vor Ihrer Einlasszeit da.

Mit freundlichen Grüßen,
Ihr Access To Italy Team
`,
	},
	"es": {
		Subject: "Sus Entradas Digitales - Access To Italy",
		Body: `
Estimado/a %s,

adjuntamos las entradas de su pedido %s.

Entrada: %s
Fecha: %s
Hora de entrada: %s

Muestre las entradas en el acceso, impresas o en su teléfono.
Le recomendamos llegar al menos 15 minutos antes de su hora de entrada.

Saludos cordiales,
El equipo de Access To Italy
`,
	},
	"fr": {
		Subject: "Vos Billets Numériques - Access To Italy",
		Body: `
Bonjour %s,

vous trouverez ci-joint les billets de votre commande %s.

Billet : %s
Date : %s
Heure d'entrée : %s

Présentez les billets à l'entrée, imprimés ou sur votre téléphone.
Merci d'arriver au moins 15 minutes avant votre heure d'entrée.

Cordialement,
L'équipe Access To Italy
`,
	},
}
