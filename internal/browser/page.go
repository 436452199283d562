// internal/browser/page.go
// Description: Implements the executor.Page contract on top of chromedp.
// Every primitive resolves the element by its generated XPath inside the page
// and dispatches the event sequence reactive frameworks require; bare property
// writes are invisible to them, so values go through the native setter and are
// followed by synthetic keyboard/input/change events.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/formpilot-cli/internal/executor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Compile-time check that the session satisfies the executor's contract.
var _ executor.Page = (*Session)(nil)

// evalResult is the envelope every page-side helper returns.
type evalResult struct {
	OK      bool   `json:"ok"`
	Err     string `json:"err"`
	Value   string `json:"value"`
	Checked bool   `json:"checked"`
}

// jsString embeds a Go string into generated JavaScript as a quoted literal.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

// resolveJS locates an element by XPath. The helpers below splice it into an
// IIFE that operates on `el`.
const resolveJS = `
	const el = document.evaluate(%s, document, null,
		XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el) { return {ok: false, err: "element not found"}; }
`

func (s *Session) eval(ctx context.Context, script string) (*evalResult, error) {
	runCtx, cancel := s.combined(ctx, 0)
	defer cancel()

	var res evalResult
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &res)); err != nil {
		return nil, err
	}
	if !res.OK {
		if res.Err == "element not found" {
			return nil, ErrElementNotFound
		}
		return nil, fmt.Errorf("browser: %s", res.Err)
	}
	return &res, nil
}

func (s *Session) elementExists(ctx context.Context, ref string) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const el = document.evaluate(%s, document, null,
			XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		return {ok: true, checked: el !== null};
	})()`, jsString(ref))

	res, err := s.eval(ctx, script)
	if err != nil {
		return false, err
	}
	return res.Checked, nil
}

// Sleep pauses between simulated inputs, honoring cancellation.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.tabCtx.Done():
		return s.tabCtx.Err()
	}
}

// ScrollIntoView centers the element in the viewport.
func (s *Session) ScrollIntoView(ctx context.Context, ref string) error {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		el.scrollIntoView({block: "center", inline: "nearest"});
		return {ok: true};
	})()`, jsString(ref))
	_, err := s.eval(ctx, script)
	return err
}

// Focus gives the element keyboard focus.
func (s *Session) Focus(ctx context.Context, ref string) error {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		el.focus();
		return {ok: true};
	})()`, jsString(ref))
	_, err := s.eval(ctx, script)
	return err
}

// Blur removes focus, which is what triggers validation on many forms.
func (s *Session) Blur(ctx context.Context, ref string) error {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		el.blur();
		return {ok: true};
	})()`, jsString(ref))
	_, err := s.eval(ctx, script)
	return err
}

// ClearValue empties a text-like input through the native setter and notifies
// listeners with an input event.
func (s *Session) ClearValue(ctx context.Context, ref string) error {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		const proto = el.tagName === "TEXTAREA"
			? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
		const desc = Object.getOwnPropertyDescriptor(proto, "value");
		if (desc && desc.set) { desc.set.call(el, ""); } else { el.value = ""; }
		el.dispatchEvent(new Event("input", {bubbles: true}));
		return {ok: true};
	})()`, jsString(ref))
	_, err := s.eval(ctx, script)
	return err
}

// AppendValue appends a chunk to the element's value, emitting the
// keydown/input/keyup sequence frameworks listen for. The native prototype
// setter bypasses value-tracking wrappers that swallow direct assignment.
func (s *Session) AppendValue(ctx context.Context, ref, chunk string) error {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		const chunk = %s;
		const proto = el.tagName === "TEXTAREA"
			? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
		const desc = Object.getOwnPropertyDescriptor(proto, "value");
		const next = el.value + chunk;
		if (desc && desc.set) { desc.set.call(el, next); } else { el.value = next; }
		el.dispatchEvent(new KeyboardEvent("keydown", {bubbles: true}));
		el.dispatchEvent(new Event("input", {bubbles: true}));
		el.dispatchEvent(new KeyboardEvent("keyup", {bubbles: true}));
		return {ok: true};
	})()`, jsString(ref), jsString(chunk))
	_, err := s.eval(ctx, script)
	return err
}

// DispatchChange emits the final change event after typing completes.
func (s *Session) DispatchChange(ctx context.Context, ref string) error {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		el.dispatchEvent(new Event("change", {bubbles: true}));
		return {ok: true};
	})()`, jsString(ref))
	_, err := s.eval(ctx, script)
	return err
}

// Value reads the element's current value.
func (s *Session) Value(ctx context.Context, ref string) (string, error) {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		return {ok: true, value: String(el.value ?? "")};
	})()`, jsString(ref))
	res, err := s.eval(ctx, script)
	if err != nil {
		return "", err
	}
	return res.Value, nil
}

// SetSelectValue assigns a select's value and dispatches input and change.
// An unknown value leaves the select unchanged; the executor verifies and
// falls back to an option scan.
func (s *Session) SetSelectValue(ctx context.Context, ref, value string) error {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		const desc = Object.getOwnPropertyDescriptor(HTMLSelectElement.prototype, "value");
		if (desc && desc.set) { desc.set.call(el, %s); } else { el.value = %s; }
		el.dispatchEvent(new Event("input", {bubbles: true}));
		el.dispatchEvent(new Event("change", {bubbles: true}));
		return {ok: true};
	})()`, jsString(ref), jsString(value), jsString(value))
	_, err := s.eval(ctx, script)
	return err
}

// Checked reads a checkbox or radio state.
func (s *Session) Checked(ctx context.Context, ref string) (bool, error) {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		return {ok: true, checked: !!el.checked};
	})()`, jsString(ref))
	res, err := s.eval(ctx, script)
	if err != nil {
		return false, err
	}
	return res.Checked, nil
}

// SetChecked toggles a checkbox with a synthetic click so listeners fire.
// The click is only issued when the state actually differs.
func (s *Session) SetChecked(ctx context.Context, ref string, checked bool) error {
	script := fmt.Sprintf(`(() => {`+resolveJS+`
		if (!!el.checked !== %t) { el.click(); }
		return {ok: true};
	})()`, jsString(ref), checked)
	_, err := s.eval(ctx, script)
	return err
}

// SelectRadio activates the radio in the named group whose value matches.
// The descriptor ref only identifies the group's first input; the target is
// looked up by name and value.
func (s *Session) SelectRadio(ctx context.Context, ref, group, value string) error {
	script := fmt.Sprintf(`(() => {
		const group = %s;
		const value = %s;
		const radios = document.querySelectorAll(
			'input[type="radio"][name="' + CSS.escape(group) + '"]');
		for (const radio of radios) {
			if (radio.value === value) {
				radio.click();
				return {ok: true};
			}
		}
		return {ok: false, err: "no radio in group " + group + " has value " + value};
	})()`, jsString(group), jsString(value))
	_, err := s.eval(ctx, script)
	return err
}
