// Package sendly provides a Go client SDK for Sendly, an SMS and phone
// verification API.
//
// Every call is retried on rate limiting, server errors and network
// failures with exponential backoff, honoring the server's Retry-After hint.
// Failures are returned as *Error values whose Kind says what went wrong.
//
// Basic usage:
//
//	client, err := sendly.New("sk_live_...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Send a message
//	msg, err := client.Messages.Send(ctx, "+15551234567", "Your order has shipped")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Walk every delivered message
//	for m, err := range client.Messages.All(ctx, &sendly.ListMessagesOptions{Status: sendly.MessageDelivered}) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(m.ID, m.To)
//	}
//
// Incoming webhooks are verified with the webhooks subpackage.
package sendly
