package codec

func extractText(data []byte) string {
	return string(data)
}

func reconstructText(edited, originalMediaType string) *Output {
	mediaType := originalMediaType
	if mediaType == "" {
		mediaType = MediaTypeText
	}
	return &Output{Data: []byte(edited), MediaType: mediaType}
}
