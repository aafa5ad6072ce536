package model

import "strings"

// Category is the coarse intent label assigned to a command.
type Category string

// Categories produced by the semantic (LLM) classifier.
const (
	CategoryAppLaunch    Category = "APP_LAUNCH"
	CategorySystemAction Category = "SYSTEM_ACTION"
	CategoryInAppAction  Category = "IN_APP_ACTION"
	CategoryWebAction    Category = "WEB_ACTION"
)

// Categories produced by the pattern classifier.
const (
	CategoryOpenApp          Category = "OPEN_APP"
	CategoryCloseApp         Category = "CLOSE_APP"
	CategoryFileFolder       Category = "FILE_FOLDER_OPERATION"
	CategoryWebSearch        Category = "WEB_SEARCH"
	CategoryTypeText         Category = "TYPE_TEXT"
	CategoryMouseClick       Category = "MOUSE_CLICK"
	CategoryMouseRightClick  Category = "MOUSE_RIGHTCLICK"
	CategoryMouseDoubleClick Category = "MOUSE_DOUBLECLICK"
	CategoryWindowAction     Category = "WINDOW_ACTION"
	CategoryKeyboard         Category = "KEYBOARD"
	CategorySystem           Category = "SYSTEM"
	CategoryAppWithAction    Category = "APP_WITH_ACTION"
	CategoryMediaControl     Category = "MEDIA_CONTROL"
	CategorySendMessage      Category = "SEND_MESSAGE"
)

// CategoryUnknown is used when no classifier rule matched.
const CategoryUnknown Category = "UNKNOWN"

// SemanticCategories lists the categories the LLM classifier may return.
var SemanticCategories = []Category{
	CategoryAppLaunch,
	CategorySystemAction,
	CategoryInAppAction,
	CategoryWebAction,
}

// LegacyCategories lists the categories the pattern classifier may return.
var LegacyCategories = []Category{
	CategoryOpenApp,
	CategoryCloseApp,
	CategoryFileFolder,
	CategoryWebSearch,
	CategoryTypeText,
	CategoryMouseClick,
	CategoryMouseRightClick,
	CategoryMouseDoubleClick,
	CategoryWindowAction,
	CategoryKeyboard,
	CategorySystem,
	CategoryAppWithAction,
	CategoryMediaControl,
	CategorySendMessage,
}

// ParseCategory normalizes s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range SemanticCategories {
		if c == known {
			return c, true
		}
	}
	for _, known := range LegacyCategories {
		if c == known {
			return c, true
		}
	}
	return c, false
}

// IsSemantic reports whether c belongs to the semantic category set.
func (c Category) IsSemantic() bool {
	for _, known := range SemanticCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }
