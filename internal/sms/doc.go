// Package sms is the SMS Gateway. It holds two independent send paths
// recovered from the original implementation:
//
//   - an HMAC-SHA256-signed NCP SENS client (send, get_sms_message) that
//     submits a message and polls delivery status to completion, and
//   - a simpler bulk distribution path (send_sms_all) that fans a single
//     rendered alert message out to every configured recipient, logging
//     per-recipient failures without halting the batch.
//
// The Alert Coordinator only depends on the bulk path through the
// alert.Sender interface; the signed NCP client is exposed separately for
// callers that need per-message delivery confirmation.
package sms
