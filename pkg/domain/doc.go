/*
Package domain contains the core models of the kotoba translation chat.

It is kept free of I/O so the chat controller, the gateway and every adapter
share one vocabulary.

# Key Entities

  - TranslationResult: the Japanese translation, its word breakdown and a grammar summary.
  - WordGloss: one lexical unit (surface form, reading, meaning, grammar note).
  - Exchange: one user turn, pending until its translation resolves or fails.
  - ValidationError, UpstreamError, ParseError, ClientDisplayError: the error taxonomy.
*/
package domain
