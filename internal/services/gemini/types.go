package gemini

// generateContentRequest is the request body for the generateContent endpoint
type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateContentResponse is the subset of the response we consume.
// Unknown fields are ignored.
type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// rateLimitBody is the error envelope Gemini returns on 429. The retry
// delay hint lives in a google.rpc.RetryInfo detail.
type rateLimitBody struct {
	Error struct {
		Details []struct {
			Type       string `json:"@type"`
			RetryDelay string `json:"retryDelay"`
		} `json:"details"`
	} `json:"error"`
}
