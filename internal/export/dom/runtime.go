package dom

// runtimeScript installs the page-side snapshot registry. Element
// references live in the registry so restoration survives selector changes
// and is a no-op for removed nodes. Installing twice is harmless.
const runtimeScript = `(() => {
	if (window.__rf) return true;
	window.__rf = {
		snapshots: Object.create(null),
		save(token, el, props) {
			const store = this.snapshots[token] || (this.snapshots[token] = []);
			const saved = {};
			for (const p of props) {
				saved[p] = [el.style.getPropertyValue(p), el.style.getPropertyPriority(p)];
			}
			store.push({el, saved});
		},
		apply(el, patch) {
			for (const p in patch) {
				el.style.setProperty(p, patch[p]);
			}
		},
		restore(token) {
			const store = this.snapshots[token];
			if (!store) return false;
			delete this.snapshots[token];
			for (const entry of store) {
				for (const p in entry.saved) {
					const [value, priority] = entry.saved[p];
					if (value) {
						entry.el.style.setProperty(p, value, priority);
					} else {
						entry.el.style.removeProperty(p);
					}
				}
			}
			return true;
		}
	};
	return true;
})()`
