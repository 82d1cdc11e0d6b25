package tutorial

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kbukum/fluxkit/errors"
	"github.com/kbukum/fluxkit/flux"
	"github.com/kbukum/fluxkit/scheduler"
)

// Env is what an example pipeline is built from.
type Env struct {
	Config    Config
	Scheduler scheduler.Scheduler
}

// Example is a named pipeline whose elements are the lines to log.
type Example struct {
	Name        string
	Description string
	Timed       bool
	Build       func(env Env) *flux.Flux[string]
}

var catalog = []Example{
	{
		Name:        "iterable",
		Description: "map names to users, keep the Bruces, lower-case their first names",
		Build:       iterable,
	},
	{
		Name:        "flat-map",
		Description: "flatMap each user to a one-element or empty sequence",
		Build:       flatMapUsers,
	},
	{
		Name:        "to-string",
		Description: "map users to upper-case full names and keep the Bruces",
		Build:       toUpperString,
	},
	{
		Name:        "collect-list",
		Description: "collect every user into one list and log its items",
		Build:       collectList,
	},
	{
		Name:        "user-comments-flat-map",
		Description: "combine a user and their comments with flatMap",
		Build:       userCommentsFlatMap,
	},
	{
		Name:        "user-comments-zip",
		Description: "combine a user and their comments with zipWith",
		Build:       userCommentsZip,
	},
	{
		Name:        "user-comments-zip-tuple",
		Description: "combine a user and their comments through a zipped tuple",
		Build:       userCommentsZipTuple,
	},
	{
		Name:        "zip-ranges",
		Description: "zip doubled values with a range",
		Build:       zipRanges,
	},
	{
		Name:        "interval",
		Description: "pace a range with an interval through zipWith",
		Timed:       true,
		Build:       intervalRange,
	},
	{
		Name:        "delay-elements",
		Description: "delay every element of a range",
		Timed:       true,
		Build:       delayElements,
	},
	{
		Name:        "infinite-interval",
		Description: "fail an interval past the limit and retry it",
		Timed:       true,
		Build:       infiniteInterval,
	},
}

// Catalog returns every example in presentation order.
func Catalog() []Example {
	return slices.Clone(catalog)
}

// Names returns the example names in presentation order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, ex := range catalog {
		names[i] = ex.Name
	}
	return names
}

// Lookup returns the example called name.
func Lookup(name string) (Example, error) {
	for _, ex := range catalog {
		if ex.Name == name {
			return ex, nil
		}
	}
	return Example{}, errors.NotFound("example", name)
}

func users(env Env) *flux.Flux[User] {
	return flux.TryMap(flux.FromSlice(env.Config.Names), ParseUser)
}

func upperUsers(env Env) *flux.Flux[User] {
	return flux.Map(users(env), User.Upper)
}

func isBruce(u User) bool {
	return strings.EqualFold(u.FirstName, "bruce")
}

func lowerFirstName(u User) string {
	return strings.ToLower(u.FirstName)
}

// iterable rejects blank names from a handler rather than at parse time,
// so the failure surfaces mid-stream after the values before it.
func iterable(env Env) *flux.Flux[string] {
	named := flux.Map(flux.FromSlice(env.Config.Names), SplitName).
		DoOnNext(RequireName).
		Log("tutorial.iterable")
	bruces := flux.Map(named, User.Upper).Filter(isBruce)
	return flux.Map(bruces, lowerFirstName)
}

func flatMapUsers(env Env) *flux.Flux[string] {
	bruces := flux.FlatMap(upperUsers(env), func(u User) *flux.Flux[User] {
		if isBruce(u) {
			return flux.Just(u)
		}
		return flux.Empty[User]()
	})
	return flux.Map(bruces, lowerFirstName)
}

func toUpperString(env Env) *flux.Flux[string] {
	names := flux.Map(users(env), func(u User) string {
		return u.Upper().FullName()
	})
	bruces := flux.FlatMap(names, func(name string) *flux.Flux[string] {
		if strings.Contains(name, "BRUCE") {
			return flux.JustMono(name).Flux()
		}
		return flux.EmptyMono[string]().Flux()
	})
	return flux.Map(bruces, strings.ToLower)
}

func collectList(env Env) *flux.Flux[string] {
	items := flux.FlatMapMany(flux.CollectList(users(env)), flux.FromSlice[User])
	return flux.Map(items, User.String)
}

func userMono() *flux.Mono[User] {
	return flux.FromCallable(func() (User, error) {
		return NewUser("John", "Doe"), nil
	})
}

func commentsMono(env Env) *flux.Mono[Comments] {
	return flux.FromCallable(func() (Comments, error) {
		var c Comments
		for _, item := range env.Config.Comments {
			c.Add(item)
		}
		return c, nil
	})
}

func userCommentsFlatMap(env Env) *flux.Flux[string] {
	uc := flux.FlatMapMono(userMono(), func(u User) *flux.Mono[UserComments] {
		return flux.MapMono(commentsMono(env), func(c Comments) UserComments {
			return NewUserComments(u, c)
		})
	})
	return flux.Map(uc.Flux(), UserComments.String)
}

func userCommentsZip(env Env) *flux.Flux[string] {
	uc := flux.ZipMono(userMono(), commentsMono(env), NewUserComments)
	return flux.Map(uc.Flux(), UserComments.String)
}

func userCommentsZipTuple(env Env) *flux.Flux[string] {
	pairs := flux.Zip(userMono().Flux(), commentsMono(env).Flux())
	return flux.Map(pairs, func(t flux.Tuple2[User, Comments]) string {
		return NewUserComments(t.T1, t.T2).String()
	})
}

func zipRanges(Env) *flux.Flux[string] {
	doubled := flux.Map(flux.Just(1, 2, 3, 4), func(i int) int { return i * 2 })
	return flux.ZipWith(doubled, flux.Range(0, 4), func(first, second int) string {
		return fmt.Sprintf("First flux: %d, Second flux: %d", first, second)
	})
}

func intervalRange(env Env) *flux.Flux[string] {
	paced := flux.ZipWith(flux.Range(1, 12), flux.IntervalOn(env.Config.IntervalPeriod, env.Scheduler),
		func(v int, _ int64) int { return v })
	return flux.Map(paced, strconv.Itoa)
}

func delayElements(env Env) *flux.Flux[string] {
	delayed := flux.Range(1, 12).DelayElementsOn(env.Config.DelayPeriod, env.Scheduler)
	return flux.Map(delayed, strconv.Itoa)
}

// infiniteInterval emits "Hola i" each period and fails once i reaches the
// limit. Retry resubscribes, which restarts the interval at zero.
func infiniteInterval(env Env) *flux.Flux[string] {
	limit := env.Config.Limit
	limited := flux.FlatMap(flux.IntervalOn(env.Config.IntervalPeriod, env.Scheduler), func(i int64) *flux.Flux[int64] {
		if i >= limit {
			return flux.Error[int64](errors.LimitExceeded(fmt.Sprintf("Solo hasta %d", limit), limit))
		}
		return flux.Just(i)
	})
	greetings := flux.Map(limited, func(i int64) string { return "Hola " + strconv.FormatInt(i, 10) })
	return greetings.Retry(env.Config.RetryCount())
}
