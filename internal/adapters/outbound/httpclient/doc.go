// Package httpclient publishes stories to the story endpoint over HTTP.
//
// A story is sent as one multipart/form-data POST: the media file under the
// "media" part plus the text fields of ports.Submission. The body is built in
// memory so its size is known up front; bytes written to the connection are
// reported to the caller as they go, which drives the "sending" phase of
// upload progress.
//
// # Responses
//
// Any 2xx answer must carry a JSON body with the new story id. The id is
// looked up at "storyId", "id", "story.id" and "story._id", in that order.
//
//	non-2xx status         -> ports.ErrEndpointRejected
//	not JSON, or no id     -> ports.ErrMalformedResponse
//	no response at all     -> ports.ErrTransport
//
// # Thread Safety
//
// A StoryClient is safe for concurrent use.
package httpclient
