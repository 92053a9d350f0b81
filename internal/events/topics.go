package events

// Topics emitted by the POS services.
const (
	TopicSaleRecorded = "sale.recorded"
	TopicDraftSaved   = "draft.saved"
	TopicOfferCreated = "offer.created"
)
