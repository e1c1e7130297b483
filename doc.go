// SPDX-FileCopyrightText: The go-smtpauth Authors
//
// SPDX-License-Identifier: MIT

// Package smtpauth implements the client side of the SMTP AUTH service
// extension as defined in RFC 4954 on top of an existing SMTP client
// session. It negotiates PLAIN, LOGIN and CRAM-MD5 by mechanism name and
// supports SCRAM, NTLM and XOAUTH2 through custom SASL mechanisms.
package smtpauth

// VERSION denotes the current library version
const VERSION = "0.1.2"
