// Package http provides Laravel-compatible request and response helpers.
// Action routes receive them as the "request" and "response" parameters.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	// Bind JSON / form body into a struct
//	var payload struct {
//	    Name string `json:"name"`
//	}
//	if err := req.Bind(&payload); err != nil { ... }
//
//	name := req.Input("name", "default")
//	page := req.Query("page", "1")
//	id   := req.Param("id")        // chi URL param
//	all  := req.Params()           // every URL param
//
//	token := req.BearerToken()
//	rid   := req.ID()              // X-Request-ID, chi request id, or a UUID
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(data)             // 200 {"data": ...}
//	res.Created(data)             // 201 {"data": ...}
//	res.NoContent()               // 204
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.NotFound()                // 404 {"message": "Not found."}
//
//	// Actions return errors; Abort picks the status.
//	return gohttp.Abort(http.StatusNotFound, "user not found")
//	res.Fail(err, debug)
package http
