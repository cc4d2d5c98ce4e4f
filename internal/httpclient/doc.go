// Package httpclient builds and sends the requests issued by minihttp.
//
// A [Client] wraps a resty client over a tuned net/http transport. The default
// headers returned by [DefaultHeaders] are attached once when the client is
// created and go out with every request:
//
//	client := httpclient.NewClient(httpclient.Options{Version: "1.0"})
//	resp, err := client.Get(ctx, "https://example.com")
//
// POST bodies are folded from key=value pairs and sent as a JSON object:
//
//	pairs, err := kv.ParseAll([]string{"name=bob", "age=42"})
//	resp, err := client.Post(ctx, "https://example.com/users", pairs)
//
// The response body is always read in full before [Client.Do] returns. Network
// failures are reported as [*TransportError], which matches [ErrTransport] under
// errors.Is; HTTP error statuses are not errors.
package httpclient
