package spell

import (
	"github.com/dshills/keyspell/internal/i18n"
)

// Menu actions. The item target carries the action's string parameter.
const (
	ActionLanguage        = "spelling.language"
	ActionSuggestion      = "spelling.suggestion"
	ActionAddToDictionary = "spelling.add-to-dictionary"
	ActionIgnoreAll       = "spelling.ignore-all"
)

// MenuItem is one context menu entry. An item either runs Action with
// Target or opens Submenu; an item with neither is a disabled label.
type MenuItem struct {
	Label   string
	Action  string
	Target  string
	Checked bool
	Submenu []MenuItem
}

// Menu is the spelling section of a context menu.
type Menu struct {
	Items []MenuItem
}

// languagesMenu lists every installed language, the current one checked.
func (c *Checker) languagesMenu() MenuItem {
	item := MenuItem{Label: i18n.Translate(i18n.KeyLanguages)}
	for _, lang := range c.langs {
		item.Submenu = append(item.Submenu, MenuItem{
			Label:   lang.Name,
			Action:  ActionLanguage,
			Target:  lang.Code,
			Checked: lang.Code == c.language,
		})
	}
	return item
}

// suggestionItems lists corrections for word followed by the add and
// ignore actions.
func (c *Checker) suggestionItems(word string) ([]MenuItem, error) {
	suggestions, err := c.Suggest(word)
	if err != nil {
		return nil, err
	}
	items := make([]MenuItem, 0, len(suggestions)+2)
	for _, s := range suggestions {
		items = append(items, MenuItem{Label: s, Action: ActionSuggestion, Target: s})
	}
	if len(suggestions) == 0 {
		items = append(items, MenuItem{Label: i18n.Translate(i18n.KeyNoSuggestions)})
	}
	items = append(items,
		MenuItem{Label: i18n.Translate(i18n.KeyAddToDictionary), Action: ActionAddToDictionary, Target: word},
		MenuItem{Label: i18n.Translate(i18n.KeyIgnoreAll), Action: ActionIgnoreAll, Target: word},
	)
	return items, nil
}

// buildMenu builds the menu for the clicked position: suggestions when
// the clicked word is highlighted, and always the language list.
func (c *Checker) buildMenu() (*Menu, error) {
	menu := &Menu{Items: []MenuItem{c.languagesMenu()}}

	start, _, word, ok := c.controller.ClickedWord()
	if !ok || !c.buf.HasTag(c.misspelledTag(), start) {
		return menu, nil
	}
	items, err := c.suggestionItems(word)
	if err != nil {
		return nil, err
	}
	if c.collapse {
		sub := MenuItem{Label: i18n.Translate(i18n.KeySuggestions), Submenu: items}
		menu.Items = append([]MenuItem{sub}, menu.Items...)
	} else {
		menu.Items = append(items, menu.Items...)
	}
	return menu, nil
}
