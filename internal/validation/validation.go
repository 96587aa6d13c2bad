// Package validation holds input validation for public-facing endpoints.
package validation

import (
	"net"
	"regexp"
	"strings"
)

// EmailPattern is the basic address format check applied before the
// stricter quality checks.
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// disposableDomains are throwaway-mail providers blocked from the newsletter.
var disposableDomains = map[string]bool{
	"tempmail.com": true, "throwaway.email": true, "10minutemail.com": true,
	"guerrillamail.com": true, "mailinator.com": true, "maildrop.cc": true,
	"temp-mail.org": true, "getnada.com": true, "trashmail.com": true,
	"fakeinbox.com": true, "yopmail.com": true, "emailondeck.com": true,
	"sharklasers.com": true, "guerrillamail.info": true, "grr.la": true,
	"guerrillamail.biz": true, "guerrillamail.de": true, "spam4.me": true,
	"mytemp.email": true, "tempmailo.com": true, "dispostable.com": true,
	"mintemail.com": true, "tempail.com": true, "mohmal.com": true,
	"guerrillamail.net": true, "guerrillamail.org": true, "opayq.com": true,
	"rootfest.net": true, "spamherelots.com": true, "tempsky.com": true,
	"thankyou2010.com": true, "vubby.com": true, "guerrillamailblock.com": true,
	"safetymail.info": true, "trbvm.com": true, "inboxkitten.com": true,
	"tempemail.net": true, "33mail.com": true, "email-fake.com": true,
	"mohmal.im": true, "armyspy.com": true, "cuvox.de": true,
	"dayrep.com": true, "fleckens.hu": true, "gustr.com": true,
	"jourrapide.com": true, "superrito.com": true, "teleworm.us": true,
	"rhyta.com": true,
}

// fakePatterns match obviously fake or test addresses.
var fakePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^test\d*@`),
	regexp.MustCompile(`(?i)^fake\d*@`),
	regexp.MustCompile(`(?i)^dummy\d*@`),
	regexp.MustCompile(`(?i)^sample@`),
	regexp.MustCompile(`(?i)^example@`),
	regexp.MustCompile(`(?i)^temp@`),
	regexp.MustCompile(`(?i)^spam@`),
	regexp.MustCompile(`(?i)^no-?reply@`),
	regexp.MustCompile(`(?i)@test\.`),
	regexp.MustCompile(`(?i)@fake\.`),
	regexp.MustCompile(`(?i)@example\.`),
	regexp.MustCompile(`(?i)@localhost`),
	regexp.MustCompile(`(?i)^asdf@`),
	regexp.MustCompile(`(?i)^qwerty@`),
	regexp.MustCompile(`(?i)^123@`),
}

// mxLookup is replaceable in tests.
var mxLookup = net.LookupMX

// ValidateEmailFormat checks only the address shape.
func ValidateEmailFormat(email string) bool {
	return email != "" && len(email) <= 254 && EmailPattern.MatchString(email)
}

// ValidateSubscriptionEmail applies the layered newsletter checks: format,
// fake-address patterns, disposable domains and a best-effort MX lookup.
// A failing MX resolver never blocks the subscription.
func ValidateSubscriptionEmail(email string) (bool, string) {
	if !ValidateEmailFormat(email) {
		return false, "Invalid email format"
	}

	lower := strings.ToLower(email)
	for _, pattern := range fakePatterns {
		if pattern.MatchString(lower) {
			return false, "Test or fake email addresses are not allowed"
		}
	}

	domain := lower[strings.LastIndex(lower, "@")+1:]
	if disposableDomains[domain] {
		return false, "Disposable email addresses are not allowed"
	}

	if records, err := mxLookup(domain); err == nil && len(records) == 0 {
		return false, "Email domain cannot receive mail"
	}

	return true, ""
}

// IsDisposableDomain reports whether the domain is on the blocklist.
func IsDisposableDomain(domain string) bool {
	return disposableDomains[strings.ToLower(domain)]
}
