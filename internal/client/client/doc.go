// Package client is the gRPC client of the portal service used by the CLI.
//
// GRPCClient keeps the access token returned by Login and attaches it as an
// "authorization: Bearer <token>" header to every subsequent call. gRPC
// status codes are translated into the sentinel errors of this package, so
// callers can use errors.Is without importing gRPC:
//
//	c, _ := client.NewPortalClient("127.0.0.1:50051")
//	defer c.Close()
//	if err := c.Login(ctx, "anna@example.com", pw); errors.Is(err, client.ErrUnauthorized) {
//		...
//	}
package client
