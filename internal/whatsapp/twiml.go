package whatsapp

// EmptyTwiML — пустой TwiML-ответ: вебхук всегда подтверждает приём,
// содержательный ответ уходит отдельным сообщением через REST API.
const EmptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`
