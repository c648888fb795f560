// Package inference provides hosted text-classification clients.
//
// Implementations:
//   - huggingface: Hugging Face Inference API, fixed sentiment model
package inference
