/*
Package kotoba translates Chinese sentences into Japanese and explains them
word by word.

A translation is produced by asking an OpenAI-compatible chat model for a
strict JSON reply, extracting the JSON object from whatever the model returned
and validating it:

	{
	  "japanese": "今日は晴れです",
	  "words": [{"jp": "今日", "romaji": "kyou", "meaning": "今天", "grammar": "名词"}],
	  "grammarSummary": "…"
	}

# Usage

	translator, err := kotoba.NewTranslator(kotoba.Options{
		APIKey: os.Getenv("OPENAI_API_KEY"),
	})
	if err != nil {
		log.Fatal(err)
	}

	result, err := translator.Translate(ctx, "今天天气很好")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Japanese)

Set Options.Server to route requests through a running `kotoba serve`
instance instead of calling the provider directly.

The kotoba binary wraps the same translator in an HTTP API with a browser chat
page (`kotoba serve`), an interactive terminal chat (`kotoba chat`), a one-shot
command (`kotoba translate`) and an MCP server (`kotoba mcp`).
*/
package kotoba
