// api.go
// ------
// Api assembles and signs requests for the Ads API and hands them to a
// Transport. It holds no per-call state: every Call builds its own Request,
// and the only cached value is the default API version, computed once.
//
// Call flow:
//   - PrepareRequest picks the parameter bag for the method and merges the
//     caller's params followed by the session's auth params.
//   - Fresh oauth_* parameters are generated from the Noncer and Clock.
//   - The SignatureMethod signs the merged parameters.
//   - The oauth_* parameters and signature are attached, either to the same
//     bag or to the Authorization header.
//   - The Logger sees the request and the response around Transport.Execute.
package adsbridge

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type paramBag int

const (
	queryBag paramBag = iota
	bodyBag
)

// methodBags decides which bag receives the merged parameters.
var methodBags = map[string]paramBag{
	MethodGet:    queryBag,
	MethodPost:   bodyBag,
	MethodPut:    bodyBag,
	MethodDelete: bodyBag,
}

var leadingVersion = regexp.MustCompile(`^\d+`)

type Api struct {
	transport Transport
	session   *Session
	opts      options

	defaultVersion func() (string, error)
}

// New returns an Api bound to transport and session. It fails if the session
// lacks consumer credentials or the API version has no leading numeral.
func New(transport Transport, session *Session, opts ...Option) (*Api, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrConfiguration)
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	a := &Api{transport: transport, session: session, opts: o}
	a.defaultVersion = sync.OnceValues(a.resolveVersion)
	if _, err := a.DefaultVersion(); err != nil {
		return nil, err
	}
	return a, nil
}

// Init builds the Consumer, Token and Session from four strings. When either
// token field is empty the session is app-only.
func Init(transport Transport, consumerKey, consumerSecret, oauthToken, oauthTokenSecret string, opts ...Option) (*Api, error) {
	session, err := NewSession(
		Consumer{Key: consumerKey, Secret: consumerSecret},
		Token{Key: oauthToken, Secret: oauthTokenSecret},
	)
	if err != nil {
		return nil, err
	}
	return New(transport, session, opts...)
}

// CopyWithSession returns an Api that shares this Api's transport, logger,
// options and default version but signs with session.
func (a *Api) CopyWithSession(session *Session) *Api {
	version, err := a.DefaultVersion()
	return &Api{
		transport: a.transport,
		session:   session,
		opts:      a.opts,
		defaultVersion: func() (string, error) {
			return version, err
		},
	}
}

func (a *Api) Session() *Session {
	return a.session
}

func (a *Api) Transport() Transport {
	return a.transport
}

func (a *Api) Logger() Logger {
	return a.opts.logger
}

// DefaultVersion returns the leading digit run of the configured API version,
// e.g. "1" for "1.1-beta". The value is computed on first use and cached.
func (a *Api) DefaultVersion() (string, error) {
	return a.defaultVersion()
}

func (a *Api) resolveVersion() (string, error) {
	v := leadingVersion.FindString(a.opts.apiVersion)
	if v == "" {
		return "", fmt.Errorf("%w: api version %q has no leading numeral", ErrInvalidRequest, a.opts.apiVersion)
	}
	return v, nil
}

// PrepareRequest creates an envelope for path and method and merges params
// followed by the session's auth params into the bag the method selects.
// Session params never overwrite caller keys.
func (a *Api) PrepareRequest(path, method string, params map[string]string) (*Request, error) {
	req, _, err := a.prepare(path, method, params)
	return req, err
}

func (a *Api) prepare(path, method string, params map[string]string) (*Request, *Params, error) {
	method = strings.ToUpper(method)
	which, ok := methodBags[method]
	if !ok {
		return nil, nil, fmt.Errorf("%w: unsupported method %q", ErrInvalidRequest, method)
	}
	if !strings.HasPrefix(path, "/") {
		return nil, nil, fmt.Errorf("%w: path %q must start with /", ErrInvalidRequest, path)
	}
	version, err := a.DefaultVersion()
	if err != nil {
		return nil, nil, err
	}

	req := a.transport.CreateRequest()
	if req == nil {
		return nil, nil, fmt.Errorf("%w: transport returned a nil request", ErrInvalidRequest)
	}
	if req.Query == nil {
		req.Query = NewParams()
	}
	if req.Body == nil {
		req.Body = NewParams()
	}
	if req.Files == nil {
		req.Files = make(map[string][]byte)
	}
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	req.Method = method
	req.Version = version
	req.Path = path

	bag := req.Query
	if which == bodyBag {
		bag = req.Body
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		bag.Set(k, params[k])
	}
	bag.Enhance(a.session.RequestParameters())

	return req, bag, nil
}

// Call signs and executes a request. File parameters are sent with the
// request but never take part in the signature.
func (a *Api) Call(ctx context.Context, path, method string, params map[string]string, fileParams map[string][]byte) (*Response, error) {
	if err := a.session.Validate(); err != nil {
		return nil, err
	}
	req, bag, err := a.prepare(path, method, params)
	if err != nil {
		return nil, err
	}
	for k, v := range fileParams {
		req.Files[k] = v
	}

	oauth, err := a.oauthParams()
	if err != nil {
		return nil, err
	}

	consumer := a.session.Consumer()
	token := a.session.Token()
	switch a.opts.placement {
	case PlacementHeader:
		// The session params merged by prepare move to the header.
		for k, v := range oauth {
			if cur, ok := bag.Get(k); ok && cur == v {
				bag.Delete(k)
			}
		}
		sig, err := BuildSignature(a.opts.signatureMethod, req, consumer, token, oauth)
		if err != nil {
			return nil, err
		}
		oauth[oauthSignatureParam] = sig
		req.Headers["Authorization"] = AuthorizationHeader(oauth)
	default:
		bag.Enhance(oauth)
		sig, err := BuildSignature(a.opts.signatureMethod, req, consumer, token, nil)
		if err != nil {
			return nil, err
		}
		bag.Set(oauthSignatureParam, sig)
	}

	return a.ExecuteRequest(ctx, req)
}

// ExecuteRequest logs and executes an already assembled request.
func (a *Api) ExecuteRequest(ctx context.Context, req *Request) (*Response, error) {
	a.opts.logger.LogRequest("debug", req)
	resp, err := a.transport.Execute(ctx, req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	a.opts.logger.LogResponse("debug", resp)
	return resp, nil
}

func (a *Api) oauthParams() (map[string]string, error) {
	nonce, err := a.opts.noncer.Nonce()
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrSigning, err)
	}
	params := map[string]string{
		oauthVersionParam:         defaultOAuthVersion,
		oauthNonceParam:           nonce,
		oauthTimestampParam:       strconv.FormatInt(a.opts.clock.Now().Unix(), 10),
		oauthConsumerKeyParam:     a.session.Consumer().Key,
		oauthSignatureMethodParam: a.opts.signatureMethod.Name(),
	}
	if token := a.session.Token(); token != nil {
		params[oauthTokenParam] = token.Key
	}
	return params, nil
}
