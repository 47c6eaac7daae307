// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware keeps a well-formed X-Request-ID sent by the client and
// otherwise generates a time-ordered UUIDv7. The id is stored in the request
// context and echoed back in the response header. LogExtractor plugs into
// logger.WithContextExtractors so every record logged with the request
// context carries a request_id attribute.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LogExtractor()))
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid
