package whatsapp

// WebhookPayload is the envelope the Cloud API delivers on every POST.
// Meta batches several entries/changes in one call.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the changes for one WhatsApp Business Account.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change carries one value object, either messages or status updates.
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value holds the actual payload of a change.
type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         *Metadata `json:"metadata"`
	Messages         []Message `json:"messages"`
	Statuses         []Status  `json:"statuses"`
}

// Metadata identifies the business number the event was addressed to.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Message is one inbound message from a subscriber.
type Message struct {
	ID          string       `json:"id"`
	From        string       `json:"from"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *TextBody    `json:"text"`
	Interactive *Interactive `json:"interactive"`
}

// TextBody is the body of a text message.
type TextBody struct {
	Body string `json:"body"`
}

// Interactive carries button or list reply selections.
type Interactive struct {
	Type        string            `json:"type"`
	ButtonReply *InteractiveReply `json:"button_reply"`
	ListReply   *InteractiveReply `json:"list_reply"`
}

// InteractiveReply is the option the subscriber selected.
type InteractiveReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Status is a delivery/read receipt. Receipts never require a reply.
type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// SendRequest is the body of an outbound text send.
type SendRequest struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             *SendText `json:"text,omitempty"`
}

// SendText wraps the outbound message body.
type SendText struct {
	Body string `json:"body"`
}

// SendResponse is the Graph API response to a send request.
type SendResponse struct {
	Messages []SentMessage `json:"messages"`
	Error    *GraphError   `json:"error,omitempty"`
}

// SentMessage carries the provider-assigned id of an accepted message.
type SentMessage struct {
	ID string `json:"id"`
}

// GraphError is the error object embedded in Graph API responses.
type GraphError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}
