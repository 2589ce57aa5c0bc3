package ai

import (
	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// estimateUsage counts tokens locally when the backend reports no usage.
// A zero UsageInfo means the encoder could not be loaded.
func estimateUsage(model, prompt, completion string) UsageInfo {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		if enc, err = tiktoken.GetEncoding(fallbackEncoding); err != nil {
			return UsageInfo{}
		}
	}
	promptTokens := len(enc.Encode(prompt, nil, nil))
	completionTokens := len(enc.Encode(completion, nil, nil))
	return UsageInfo{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Estimated:        true,
	}
}
