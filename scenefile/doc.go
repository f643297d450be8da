// Package scenefile reads frames of layer trees from YAML or TOML files.
//
// A scene has a frame size and a list of frames. Each frame is a tree of
// nodes, one node per layer; displayList nodes carry the ops recorded into
// their display list:
//
//	width: 200
//	height: 200
//	frames:
//	  - name: first
//	    root:
//	      type: transform
//	      translate: [10, 10]
//	      children:
//	        - type: displayList
//	          ops:
//	            - {op: rect, rect: [0, 0, 50, 50], color: red}
//
// Scene.Trees links every layer to the layer at the same position (or
// with the same key) in the frame before, so diffing consecutive trees
// yields only the damage between them.
package scenefile
