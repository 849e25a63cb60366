package mailer

func defaultTemplates() map[string]Template {
	return map[string]Template{
		"preregistration_received": {
			Subject: "Hemos recibido tu solicitud de evento",
			HTML:    "<p>Hola {{nombre}},</p><p>Recibimos tu solicitud para un evento de tipo <b>{{tipo_evento}}</b> el {{fecha_estimada}}. Nuestro equipo la revisará y te contactará pronto.</p>",
			Text:    "Hola {{nombre}}, recibimos tu solicitud para un evento de tipo {{tipo_evento}} el {{fecha_estimada}}. Nuestro equipo la revisará y te contactará pronto.",
		},
		"preregistration_approved": {
			Subject: "Tu solicitud de evento fue aprobada",
			HTML:    "<p>Hola {{nombre}},</p><p>Tu solicitud para el evento <b>{{tipo_evento}}</b> fue aprobada. {{comentario}}</p>",
			Text:    "Hola {{nombre}}, tu solicitud para el evento {{tipo_evento}} fue aprobada. {{comentario}}",
		},
		"preregistration_rejected": {
			Subject: "Actualización sobre tu solicitud de evento",
			HTML:    "<p>Hola {{nombre}},</p><p>Lamentablemente tu solicitud para el evento <b>{{tipo_evento}}</b> no fue aprobada. {{comentario}}</p>",
			Text:    "Hola {{nombre}}, lamentablemente tu solicitud para el evento {{tipo_evento}} no fue aprobada. {{comentario}}",
		},
		"quote_sent": {
			Subject: "Cotización {{quote_id}} disponible",
			HTML:    "<p>Hola {{nombre}},</p><p>Tu cotización por un total de <b>{{total}}</b> está lista. Es válida hasta el {{expira}}.</p>",
			Text:    "Hola {{nombre}}, tu cotización por un total de {{total}} está lista. Es válida hasta el {{expira}}.",
		},
		"generic": {
			Subject: "{{titulo}}",
			HTML:    "<p>{{mensaje}}</p>",
			Text:    "{{mensaje}}",
		},
	}
}
